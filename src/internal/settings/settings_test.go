package settings

import (
	"context"
	stderrors "errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rbac-console/admin-console/src/internal/errors"
)

type fakeSource struct {
	mu       sync.Mutex
	doc      Tree
	fetchErr error
	saveErr  error
	fetches  atomic.Int32
	puts     []Tree
	// block, when set, holds calls until closed
	block chan struct{}
	// entered, when set, receives once a save reaches the source
	entered chan struct{}
}

func (f *fakeSource) FetchSettings(ctx context.Context) (Tree, error) {
	f.fetches.Add(1)
	if f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return f.doc.Clone(), nil
}

func (f *fakeSource) ReplaceSettings(ctx context.Context, tree Tree) error {
	if f.entered != nil {
		f.entered <- struct{}{}
	}
	if f.block != nil {
		<-f.block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	f.puts = append(f.puts, tree.Clone())
	f.doc = tree.Clone()
	return nil
}

func mustTree(t *testing.T, s string) Tree {
	t.Helper()
	tree, err := ParseTree([]byte(s))
	require.NoError(t, err)
	return tree
}

func TestLoad_StartsCleanSession(t *testing.T) {
	src := &fakeSource{doc: mustTree(t, `{"security":{"password":{"min_length":8}}}`)}
	rec := NewReconciler(src)

	s, err := rec.Load(context.Background())
	require.NoError(t, err)

	assert.False(t, s.Dirty)
	assert.True(t, s.Working.Equal(s.Saved))

	// Working and Saved must not alias each other.
	require.NoError(t, s.Working.Set(MustParsePath("security.password.min_length"), int64(99)))
	v, _ := s.Saved.Get(MustParsePath("security.password.min_length"))
	assert.Equal(t, int64(8), v)
}

func TestLoad_FailureIsNetworkError(t *testing.T) {
	src := &fakeSource{fetchErr: stderrors.New("connection refused")}
	rec := NewReconciler(src)

	_, err := rec.Load(context.Background())
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeNetwork))
}

func TestLoad_ConcurrentCallsShareOneRequest(t *testing.T) {
	src := &fakeSource{doc: Tree{"a": "b"}, block: make(chan struct{})}
	rec := NewReconciler(src)

	var wg sync.WaitGroup
	results := make([]Session, 4)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s, err := rec.Load(context.Background())
			assert.NoError(t, err)
			results[i] = s
		}(i)
	}

	// Give the goroutines time to join the in-flight load.
	time.Sleep(50 * time.Millisecond)
	close(src.block)
	wg.Wait()

	assert.Equal(t, int32(1), src.fetches.Load())
	for _, s := range results {
		assert.True(t, s.Working.Equal(Tree{"a": "b"}))
	}
	// Each caller owns its own copy.
	results[0].Working["a"] = "changed"
	assert.Equal(t, "b", results[1].Working["a"])
}

func TestLoad_CallerCancelDoesNotFailJoinedCallers(t *testing.T) {
	src := &fakeSource{doc: Tree{"a": "b"}, block: make(chan struct{})}
	rec := NewReconciler(src)

	firstCtx, cancelFirst := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := rec.Load(firstCtx)
		firstErr <- err
	}()
	require.Eventually(t, func() bool { return src.fetches.Load() == 1 }, time.Second, 5*time.Millisecond)

	joined := make(chan Session, 1)
	joinedErr := make(chan error, 1)
	go func() {
		s, err := rec.Load(context.Background())
		joinedErr <- err
		joined <- s
	}()
	time.Sleep(20 * time.Millisecond)

	cancelFirst()
	select {
	case err := <-firstErr:
		require.Error(t, err)
		assert.True(t, errors.HasCode(err, errors.ErrCodeNetwork))
	case <-time.After(time.Second):
		t.Fatal("cancelled caller did not return")
	}

	close(src.block)
	require.NoError(t, <-joinedErr)
	assert.True(t, (<-joined).Working.Equal(Tree{"a": "b"}))
	assert.Equal(t, int32(1), src.fetches.Load())
}

func TestMarkDirty_AlwaysSetsDirty(t *testing.T) {
	s := NewSession(Tree{"maintenance": Tree{"enabled": false}})
	assert.False(t, s.Dirty)

	s = s.MarkDirty()
	assert.True(t, s.Dirty)

	// A no-op edit (toggle twice) still leaves the session dirty.
	s = s.MarkDirty().MarkDirty()
	assert.True(t, s.Dirty)
	assert.False(t, s.HasChanges())
}

func TestReset_RestoresDeepCopyOfSaved(t *testing.T) {
	s := NewSession(Tree{"site": Tree{"name": "Admin"}})
	require.NoError(t, s.Working.Set(MustParsePath("site.name"), "Changed"))
	s = s.MarkDirty()

	s = s.Reset()
	assert.False(t, s.Dirty)
	assert.True(t, s.Working.Equal(s.Saved))

	s.Working["site"].(Tree)["name"] = "Again"
	v, _ := s.Saved.Get(MustParsePath("site.name"))
	assert.Equal(t, "Admin", v, "reset must not alias saved")
}

func TestSave_Success(t *testing.T) {
	src := &fakeSource{doc: Tree{}}
	rec := NewReconciler(src)
	s := NewSession(Tree{}).MarkDirty()

	tree := Tree{"site": Tree{"name": "New"}}
	s, err := rec.Save(context.Background(), s, tree)
	require.NoError(t, err)

	assert.False(t, s.Dirty)
	assert.True(t, s.Saved.Equal(tree))
	assert.True(t, s.Working.Equal(tree))
	require.Len(t, src.puts, 1)
	assert.True(t, src.puts[0].Equal(tree))

	// Saved is a copy, not the same map as tree.
	tree["site"].(Tree)["name"] = "Mutated"
	v, _ := s.Saved.Get(MustParsePath("site.name"))
	assert.Equal(t, "New", v)
}

func TestSave_FailureLeavesSessionUnchanged(t *testing.T) {
	src := &fakeSource{saveErr: stderrors.New("status 500")}
	rec := NewReconciler(src)
	before := NewSession(Tree{"a": int64(1)})
	before.Working = Tree{"a": int64(2)}
	before = before.MarkDirty()

	after, err := rec.Save(context.Background(), before, Tree{"a": int64(2)})
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeNetwork))
	assert.Equal(t, before, after)
}

func TestSave_RejectsConcurrentSave(t *testing.T) {
	src := &fakeSource{block: make(chan struct{}), entered: make(chan struct{}, 1)}
	rec := NewReconciler(src)
	s := NewSession(Tree{})

	done := make(chan error, 1)
	go func() {
		_, err := rec.Save(context.Background(), s, Tree{"a": "1"})
		done <- err
	}()

	select {
	case <-src.entered:
	case <-time.After(time.Second):
		t.Fatal("first save never reached the source")
	}

	_, err := rec.Save(context.Background(), s, Tree{"a": "2"})
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeConflict))

	close(src.block)
	require.NoError(t, <-done)
	require.Len(t, src.puts, 1)
	assert.Equal(t, "1", src.puts[0]["a"])
}

func TestScenario_EditMinLength(t *testing.T) {
	src := &fakeSource{doc: mustTree(t, `{"security":{"password":{"min_length":8}}}`)}
	rec := NewReconciler(src)

	s, err := rec.Load(context.Background())
	require.NoError(t, err)

	s = s.MarkDirty()
	tree, err := Gather([]FieldDescriptor{
		{Path: Path{"security", "password", "min_length"}, Kind: KindNumber, Value: "12"},
	})
	require.NoError(t, err)

	assert.True(t, tree.Equal(mustTree(t, `{"security":{"password":{"min_length":12}}}`)))
	assert.True(t, s.Dirty)
}

func TestScenario_NewPathOnEmptyTree(t *testing.T) {
	tree, err := Gather([]FieldDescriptor{
		{Path: Path{"appearance", "theme", "primary_color"}, Kind: KindText, Value: "#ff0000"},
	})
	require.NoError(t, err)
	assert.True(t, tree.Equal(mustTree(t, `{"appearance":{"theme":{"primary_color":"#ff0000"}}}`)))
}

func TestScenario_BlankNumberBlocksSave(t *testing.T) {
	src := &fakeSource{doc: Tree{}}
	rec := NewReconciler(src)
	s := NewSession(Tree{}).MarkDirty()

	fields := []FieldDescriptor{
		{Path: Path{"security", "password", "min_length"}, Kind: KindNumber, Value: ""},
		{Path: Path{"site", "name"}, Kind: KindText, Value: "Admin"},
	}

	_, err := Gather(fields)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeValidation))

	var fe FieldErrors
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, []string{"security.password.min_length"}, fe.Paths())

	after, err := rec.GatherAndSave(context.Background(), s, fields)
	require.Error(t, err)
	assert.Empty(t, src.puts, "save must not be sent")
	assert.Equal(t, s, after)
}
