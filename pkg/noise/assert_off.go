//go:build !terragen_assert

package noise

const assertInvariants = false
