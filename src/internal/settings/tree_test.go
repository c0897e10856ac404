package settings

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestParsePath(t *testing.T) {
	tests := []struct {
		in      string
		want    Path
		wantErr bool
	}{
		{in: "site.name", want: Path{"site", "name"}},
		{in: "security.password.min_length", want: Path{"security", "password", "min_length"}},
		{in: "single", want: Path{"single"}},
		{in: "", wantErr: true},
		{in: "a..b", wantErr: true},
		{in: ".a", wantErr: true},
		{in: "a.", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParsePath(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParsePath(%q) expected error, got %v", tt.in, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParsePath(%q) unexpected error: %v", tt.in, err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParsePath(%q) = %v, want %v", tt.in, got, tt.want)
			}
			if got.String() != tt.in {
				t.Errorf("String() = %q, want %q", got.String(), tt.in)
			}
		})
	}
}

func TestPath_ChildDoesNotShareBackingArray(t *testing.T) {
	base := make(Path, 1, 4)
	base[0] = "root"

	a := base.Child("a")
	b := base.Child("b")

	if a.String() != "root.a" || b.String() != "root.b" {
		t.Errorf("children clobbered each other: %s, %s", a, b)
	}
}

func TestParseTree_NormalizesNumbersAndLists(t *testing.T) {
	tree, err := ParseTree([]byte(`{
		"security": {"password": {"min_length": 8}},
		"ratio": 0.5,
		"site": {"languages": ["en", "de"]},
		"auth": {"allow_registration": true}
	}`))
	if err != nil {
		t.Fatalf("ParseTree() error: %v", err)
	}

	checks := map[string]any{
		"security.password.min_length": int64(8),
		"ratio":                        0.5,
		"site.languages":               []string{"en", "de"},
		"auth.allow_registration":      true,
	}
	for path, want := range checks {
		got, ok := tree.Get(MustParsePath(path))
		if !ok {
			t.Errorf("missing %s", path)
			continue
		}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("%s = %#v, want %#v", path, got, want)
		}
	}
}

func TestParseTree_RejectsMixedLists(t *testing.T) {
	if _, err := ParseTree([]byte(`{"a": [1, "b"]}`)); err == nil {
		t.Error("expected error for non-string list")
	}
}

func TestTree_SetCreatesIntermediateSections(t *testing.T) {
	tree := Tree{}
	if err := tree.Set(MustParsePath("email.smtp.port"), int64(587)); err != nil {
		t.Fatalf("Set() error: %v", err)
	}
	got, ok := tree.Get(MustParsePath("email.smtp.port"))
	if !ok || got != int64(587) {
		t.Errorf("Get() = %v, %v", got, ok)
	}
}

func TestTree_SetThroughLeafFails(t *testing.T) {
	tree := Tree{"site": "not a section"}
	err := tree.Set(MustParsePath("site.name"), "x")
	if err == nil {
		t.Fatal("expected conflict error")
	}
	if !strings.Contains(err.Error(), "site") {
		t.Errorf("error should name the conflicting segment: %v", err)
	}
}

func TestTree_CloneIsDeep(t *testing.T) {
	orig := Tree{
		"site":    Tree{"name": "Admin"},
		"options": []string{"a", "b"},
	}
	clone := orig.Clone()

	clone["site"].(Tree)["name"] = "Other"
	clone["options"].([]string)[0] = "z"

	if orig["site"].(Tree)["name"] != "Admin" {
		t.Error("nested tree shared between clone and original")
	}
	if orig["options"].([]string)[0] != "a" {
		t.Error("slice shared between clone and original")
	}
}

func TestTree_EqualComparesNumbersByValue(t *testing.T) {
	a := Tree{"n": int64(3)}
	b := Tree{"n": float64(3)}
	if !a.Equal(b) {
		t.Error("3 and 3.0 should be equal")
	}
	if a.Equal(Tree{"n": "3"}) {
		t.Error("number and string must differ")
	}
}

func TestTree_Delete(t *testing.T) {
	tree := Tree{"a": Tree{"b": "c", "d": "e"}}
	if !tree.Delete(MustParsePath("a.b")) {
		t.Fatal("Delete() returned false")
	}
	if _, ok := tree.Get(MustParsePath("a.b")); ok {
		t.Error("value still present")
	}
	if tree.Delete(MustParsePath("a.missing")) {
		t.Error("Delete() of missing path returned true")
	}
}

func TestGather_Coercion(t *testing.T) {
	fields := []FieldDescriptor{
		{Path: MustParsePath("security.two_factor.enabled"), Kind: KindCheckbox, Checked: true},
		{Path: MustParsePath("maintenance.enabled"), Kind: KindCheckbox, Checked: false},
		{Path: MustParsePath("security.login.max_attempts"), Kind: KindNumber, Value: " 5 "},
		{Path: MustParsePath("site.languages"), Kind: KindMultiSelect, Selected: []string{"en", "fr"}},
		{Path: MustParsePath("site.admin_email"), Kind: KindEmail, Value: "root@example.com"},
		{Path: MustParsePath("email.smtp.password"), Kind: KindPassword, Value: " keep spaces "},
	}

	tree, err := Gather(fields)
	if err != nil {
		t.Fatalf("Gather() error: %v", err)
	}

	want := Tree{
		"security": Tree{
			"two_factor": Tree{"enabled": true},
			"login":      Tree{"max_attempts": int64(5)},
		},
		"maintenance": Tree{"enabled": false},
		"site": Tree{
			"languages":   []string{"en", "fr"},
			"admin_email": "root@example.com",
		},
		"email": Tree{"smtp": Tree{"password": " keep spaces "}},
	}
	if !tree.Equal(want) {
		t.Errorf("Gather() = %#v, want %#v", tree, want)
	}
}

func TestGather_ReportsEveryInvalidField(t *testing.T) {
	fields := []FieldDescriptor{
		{Path: MustParsePath("a.n"), Kind: KindNumber, Value: ""},
		{Path: MustParsePath("a.m"), Kind: KindNumber, Value: "12abc"},
		{Path: MustParsePath("a.f"), Kind: KindNumber, Value: "1.5"},
		{Path: MustParsePath("a.ok"), Kind: KindNumber, Value: "7"},
		{Path: Path{"b", ""}, Kind: KindText},
	}

	tree, err := Gather(fields)
	if err == nil {
		t.Fatalf("expected error, got tree %v", tree)
	}
	if tree != nil {
		t.Error("no tree should be returned on error")
	}

	var fe FieldErrors
	if !errors.As(err, &fe) {
		t.Fatalf("error does not carry FieldErrors: %v", err)
	}
	if len(fe) != 4 {
		t.Errorf("expected 4 field errors, got %d: %v", len(fe), fe)
	}
}

func TestGather_DuplicateAndConflictingPaths(t *testing.T) {
	_, err := Gather([]FieldDescriptor{
		{Path: MustParsePath("site.name"), Kind: KindText, Value: "a"},
		{Path: MustParsePath("site.name"), Kind: KindText, Value: "b"},
	})
	if err == nil {
		t.Error("expected duplicate binding error")
	}

	_, err = Gather([]FieldDescriptor{
		{Path: MustParsePath("site"), Kind: KindText, Value: "a"},
		{Path: MustParsePath("site.name"), Kind: KindText, Value: "b"},
	})
	if err == nil {
		t.Error("expected leaf/section conflict error")
	}

	_, err = Gather([]FieldDescriptor{
		{Path: MustParsePath("site.name"), Kind: KindText, Value: "b"},
		{Path: MustParsePath("site"), Kind: KindText, Value: "a"},
	})
	if err == nil {
		t.Error("expected section/leaf conflict error")
	}
}

func TestGather_ResultDoesNotAliasInput(t *testing.T) {
	selected := []string{"x"}
	tree, err := Gather([]FieldDescriptor{
		{Path: MustParsePath("a"), Kind: KindMultiSelect, Selected: selected},
	})
	if err != nil {
		t.Fatal(err)
	}
	selected[0] = "changed"
	if tree["a"].([]string)[0] != "x" {
		t.Error("gathered slice aliases the field's selection")
	}
}

func TestGatherFlatten_RoundTrip(t *testing.T) {
	docs := []string{
		`{}`,
		`{"site":{"name":"Admin","timezone":"UTC"}}`,
		`{"security":{"password":{"min_length":8,"require_numbers":true},"session":{"timeout":30}},
		  "auth":{"default_role":"user","oauth":{"github":{"enabled":false,"client_id":""}}},
		  "appearance":{"theme":{"primary_color":"#ff0000"},"layout":{"compact_mode":true}},
		  "notify":{"channels":["email","sms"]}}`,
	}

	for _, doc := range docs {
		tree, err := ParseTree([]byte(doc))
		if err != nil {
			t.Fatalf("ParseTree(%s): %v", doc, err)
		}
		back, err := Gather(Flatten(tree))
		if err != nil {
			t.Fatalf("Gather(Flatten(%s)): %v", doc, err)
		}
		if !back.Equal(tree) {
			t.Errorf("round trip mismatch:\n got %#v\nwant %#v", back, tree)
		}
	}
}

func TestOverlay_KeepsUncoveredLeavesAsLoaded(t *testing.T) {
	base, err := ParseTree([]byte(`{
		"site": {"name": "Admin"},
		"limits": {"ratio": 0.75, "note": null},
		"auth": {"roles": {}}
	}`))
	if err != nil {
		t.Fatal(err)
	}

	out, err := Overlay(base, []FieldDescriptor{
		{Path: MustParsePath("site.name"), Kind: KindText, Value: "Console"},
		{Path: MustParsePath("site.timezone"), Kind: KindText, Value: "UTC"},
	})
	if err != nil {
		t.Fatalf("Overlay() error: %v", err)
	}

	want := Tree{
		"site":   Tree{"name": "Console", "timezone": "UTC"},
		"limits": Tree{"ratio": 0.75, "note": nil},
		"auth":   Tree{"roles": Tree{}},
	}
	if !out.Equal(want) {
		t.Errorf("Overlay() = %#v, want %#v", out, want)
	}
	if base["site"].(Tree)["name"] != "Admin" {
		t.Error("Overlay modified its base")
	}
}

func TestOverlay_RefusesToReplaceSection(t *testing.T) {
	_, err := Overlay(Tree{"auth": Tree{"roles": Tree{"admin": Tree{}}}}, []FieldDescriptor{
		{Path: MustParsePath("auth.roles"), Kind: KindText, Value: "x"},
	})
	var fe FieldErrors
	if !errors.As(err, &fe) || len(fe) != 1 || fe[0].Path != "auth.roles" {
		t.Errorf("expected one field error for auth.roles, got %v", err)
	}
}

func TestFlatten_SortedByPath(t *testing.T) {
	fields := Flatten(Tree{"b": "1", "a": Tree{"z": "2", "c": "3"}})
	var got []string
	for _, f := range fields {
		got = append(got, f.Path.String())
	}
	want := []string{"a.c", "a.z", "b"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Flatten() order = %v, want %v", got, want)
	}
}

func TestDiff(t *testing.T) {
	before := Tree{
		"site":     Tree{"name": "Admin", "timezone": "UTC"},
		"security": Tree{"password": Tree{"min_length": int64(8)}},
	}
	after := Tree{
		"site":     Tree{"name": "Console"},
		"security": Tree{"password": Tree{"min_length": int64(8)}},
		"backup":   Tree{"auto_backup": Tree{"enabled": true}},
	}

	changes := Diff(before, after)
	want := []Change{
		{Path: "backup.auto_backup.enabled", Type: ChangeAdded, To: true},
		{Path: "site.name", Type: ChangeModified, From: "Admin", To: "Console"},
		{Path: "site.timezone", Type: ChangeRemoved, From: "UTC"},
	}
	if !reflect.DeepEqual(changes, want) {
		t.Errorf("Diff() = %#v, want %#v", changes, want)
	}
}

func TestFingerprint_StableAcrossKeyOrder(t *testing.T) {
	a, err := ParseTree([]byte(`{"x":1,"y":{"b":true,"a":"s"}}`))
	if err != nil {
		t.Fatal(err)
	}
	b, err := ParseTree([]byte(`{"y":{"a":"s","b":true},"x":1}`))
	if err != nil {
		t.Fatal(err)
	}

	fa, err := Fingerprint(a)
	if err != nil {
		t.Fatal(err)
	}
	fb, err := Fingerprint(b)
	if err != nil {
		t.Fatal(err)
	}
	if fa != fb {
		t.Errorf("fingerprints differ: %s vs %s", fa, fb)
	}

	b["x"] = int64(2)
	fc, _ := Fingerprint(b)
	if fc == fa {
		t.Error("fingerprint did not change with content")
	}
}
