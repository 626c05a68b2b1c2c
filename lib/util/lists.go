package util

func Contains[S ~[]T, T comparable](list S, target T) bool {
	return IndexOf(list, target) >= 0
}

func ContainsFunc[S ~[]T, T comparable](list S, target T, eq EqualFunc[T]) bool {
	return IndexOfFunc(list, target, eq) >= 0
}

func IndexOf[S ~[]T, T comparable](list S, target T) int {
	return IndexOfFunc(list, target, StrictEqual[T])
}

func IndexOfFunc[S ~[]T, T comparable](list S, target T, eq EqualFunc[T]) int {
	for i, el := range list {
		if eq(el, target) {
			return i
		}
	}
	return -1
}

func Filter[S ~[]T, T any](slice S, keep func(T) bool) S {
	out := make(S, 0, len(slice))
	for _, t := range slice {
		if keep(t) {
			out = append(out, t)
		}
	}
	return out
}

func Map[S ~[]T, T, U any](slice S, f func(T) U) []U {
	out := make([]U, len(slice))
	for i, t := range slice {
		out[i] = f(t)
	}
	return out
}
