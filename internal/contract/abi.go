// Package contract builds calldata for the handful of contract calls subctl
// makes and sends the resulting transactions. The encoder covers the ABI
// types those calls use rather than the full ABI spec.
package contract

import (
	"encoding/hex"
	"math/big"
	"strings"

	"golang.org/x/crypto/sha3"
)

// Value is one ABI-encoded argument: a 32-byte head for static types, or a
// tail (with the head becoming an offset) for dynamic ones.
type Value struct {
	head    [32]byte
	tail    []byte
	dynamic bool
}

// Selector computes the 4-byte function selector for a signature like
// "setText(bytes32,string,string)".
func Selector(signature string) []byte {
	h := sha3.NewLegacyKeccak256()
	h.Write([]byte(signature))
	return h.Sum(nil)[:4]
}

// Keccak256 hashes data with Keccak-256.
func Keccak256(data []byte) []byte {
	h := sha3.NewLegacyKeccak256()
	h.Write(data)
	return h.Sum(nil)
}

// Bytes32 encodes a fixed 32-byte word.
func Bytes32(word [32]byte) Value {
	return Value{head: word}
}

// Address encodes a hex address (with or without 0x) left-padded to a word.
func Address(addr string) Value {
	raw, _ := hex.DecodeString(strings.TrimPrefix(strings.ToLower(addr), "0x"))
	var w [32]byte
	if len(raw) <= 20 {
		copy(w[32-len(raw):], raw)
	}
	return Value{head: w}
}

// Uint256 encodes a big integer.
func Uint256(n *big.Int) Value {
	var w [32]byte
	if n != nil {
		n.FillBytes(w[:])
	}
	return Value{head: w}
}

// String encodes a dynamic UTF-8 string.
func String(s string) Value {
	return Value{dynamic: true, tail: lengthPrefixed([]byte(s))}
}

// Bytes encodes a dynamic byte blob.
func Bytes(b []byte) Value {
	return Value{dynamic: true, tail: lengthPrefixed(b)}
}

// BytesArray encodes bytes[] — used for resolver multicall payloads.
func BytesArray(items [][]byte) Value {
	// count word, then per-item offsets, then each length-prefixed item.
	tail := make([]byte, 0, 32*(1+len(items)))
	count := Uint256(big.NewInt(int64(len(items)))).head
	tail = append(tail, count[:]...)

	offsets := make([]int, len(items))
	running := 32 * len(items)
	encoded := make([][]byte, len(items))
	for i, item := range items {
		offsets[i] = running
		encoded[i] = lengthPrefixed(item)
		running += len(encoded[i])
	}
	for _, off := range offsets {
		offWord := Uint256(big.NewInt(int64(off))).head
		tail = append(tail, offWord[:]...)
	}
	for _, e := range encoded {
		tail = append(tail, e...)
	}
	return Value{dynamic: true, tail: tail}
}

// Pack assembles calldata: selector, then head words (offsets for dynamic
// arguments), then tails in argument order.
func Pack(signature string, args ...Value) []byte {
	out := append([]byte{}, Selector(signature)...)

	headSize := 32 * len(args)
	tailOffset := headSize
	for _, a := range args {
		if a.dynamic {
			offWord := Uint256(big.NewInt(int64(tailOffset))).head
			out = append(out, offWord[:]...)
			tailOffset += len(a.tail)
		} else {
			out = append(out, a.head[:]...)
		}
	}
	for _, a := range args {
		if a.dynamic {
			out = append(out, a.tail...)
		}
	}
	return out
}

// lengthPrefixed returns a length word followed by data padded to a word
// boundary.
func lengthPrefixed(data []byte) []byte {
	lenWord := Uint256(big.NewInt(int64(len(data)))).head
	out := lenWord[:]
	out = append(out, data...)
	if rem := len(data) % 32; rem != 0 {
		out = append(out, make([]byte, 32-rem)...)
	}
	return out
}
