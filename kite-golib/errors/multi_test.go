package errors

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendNil(t *testing.T) {
	err := New("error")
	errs := Append(nil, err).sliceNoCopy()
	require.Len(t, errs, 1)
	require.Equal(t, err, errs[0])

	errs = Append(errorSlice{err}, nil).sliceNoCopy()
	require.Len(t, errs, 1)
	require.Equal(t, err, errs[0])

	require.Nil(t, Append(nil, nil))
}

func TestAppendFlattens(t *testing.T) {
	err0 := New("error0")
	err1 := New("error1")
	err2 := New("error2")

	var errs01 Errors
	errs01 = Append(errs01, err0)
	errs01 = Append(errs01, err1)

	errs := Append(Append(nil, err2), errs01)
	require.Equal(t, 3, errs.Len())
	assert.Equal(t, []error{err2, err0, err1}, errs.Slice())
	assert.Equal(t, "error2\nerror0\nerror1", errs.Error())
}

func TestCombine(t *testing.T) {
	err0 := New("error0")
	err1 := New("error1")

	require.Equal(t, err0, Combine(err0, nil))
	require.Equal(t, err0, Combine(nil, err0))

	errs := Combine(err0, err1).(Errors).sliceNoCopy()
	require.Len(t, errs, 2)
	require.Equal(t, err0, errs[0])
	require.Equal(t, err1, errs[1])
}

func TestCombineDoesNotMutate(t *testing.T) {
	base := Append(nil, New("base"))
	_ = Combine(base, New("extra"))
	require.Equal(t, 1, base.Len())
}

func TestFirst(t *testing.T) {
	err0 := New("error0")
	require.Equal(t, err0, First(err0))
	require.Equal(t, err0, First(Append(Append(nil, err0), New("error1"))))
	require.Nil(t, First(nil))
}

func TestWrapf(t *testing.T) {
	require.Nil(t, WrapfOrNil(nil, "context"))
	require.EqualError(t, Wrapf(nil, "no cause %d", 1), "no cause 1")

	cause := New("cause")
	err := Wrapf(cause, "reading %s", "file")
	require.EqualError(t, err, "reading file: cause")
	require.Equal(t, cause, Cause(err))
}
