//go:build !lru_debug

package lru

func checkInvariantsDebug[T any](*List[T]) {}
