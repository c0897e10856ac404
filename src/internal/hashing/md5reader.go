package hashing

import (
	"crypto/md5"
	"encoding/hex"
	"hash"
	"io"
)

// MD5Reader passes reads through and hashes the bytes it returns.
type MD5Reader struct {
	reader io.Reader
	sum    hash.Hash
	n      int64
}

// NewMD5Reader wraps reader.
func NewMD5Reader(reader io.Reader) *MD5Reader {
	return &MD5Reader{reader: reader, sum: md5.New()}
}

// Read implements io.Reader.
func (r *MD5Reader) Read(buf []byte) (int, error) {
	n, err := r.reader.Read(buf)
	if n > 0 {
		r.sum.Write(buf[:n])
		r.n += int64(n)
	}
	return n, err
}

// Checksum returns the hex MD5 of everything read so far.
func (r *MD5Reader) Checksum() string {
	return hex.EncodeToString(r.sum.Sum(nil))
}

// BytesRead returns how many bytes have been read.
func (r *MD5Reader) BytesRead() int64 {
	return r.n
}
