package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorListResolveFillsPositionAndSnippet(t *testing.T) {
	sess := NewSession()
	span := sess.AddSource("main.asm", "/src", "add $t0, $t1, $t2\n")

	errs := &ErrorList{}
	errs.AddError(NewError(Span{Start: span.Start + 4, Len: 3}, ErrInvalidRegister, "bad register"))
	errs.Resolve(sess)

	require := assert.New(t)
	require.Equal("main.asm", errs.Errors[0].Pos.Filename)
	require.Equal(1, errs.Errors[0].Pos.Line)
	require.Equal("add $t0, $t1, $t2", errs.Errors[0].Context)
}

func TestErrorListResolvePreservesExplicitContext(t *testing.T) {
	sess := NewSession()
	sess.AddSource("main.asm", "/src", "add $t0, $t1, $t2\n")

	errs := &ErrorList{}
	errs.AddError(NewErrorWithContext(Span{Start: 0, Len: 1}, ErrInvalidChar, "bad", "custom context"))
	errs.Resolve(sess)

	assert.Equal(t, "custom context", errs.Errors[0].Context)
}

func TestErrorListMerge(t *testing.T) {
	a := &ErrorList{}
	a.AddError(NewError(Span{}, ErrInvalidChar, "a"))
	b := &ErrorList{}
	b.AddError(NewError(Span{}, ErrInvalidChar, "b"))

	a.Merge(b)
	assert.Len(t, a.Errors, 2)
}

func TestErrorListHasErrors(t *testing.T) {
	errs := &ErrorList{}
	assert.False(t, errs.HasErrors())
	errs.AddError(NewError(Span{}, ErrInvalidChar, "x"))
	assert.True(t, errs.HasErrors())
}
