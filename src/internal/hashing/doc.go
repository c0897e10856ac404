// Package hashing computes checksums of data while it is streamed.
package hashing
