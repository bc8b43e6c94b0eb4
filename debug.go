//go:build debug

package llt

var alloc int

func noteAlloc(l int) {
	alloc += l
}
