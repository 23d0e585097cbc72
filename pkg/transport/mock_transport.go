package transport

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockTransport is a Transport driven by testify expectations
type MockTransport struct {
	mock.Mock
}

func (_m *MockTransport) Abort(err error) {
	_m.Called(err)
}

func (_m *MockTransport) Close() error {
	ret := _m.Called()

	var r0 error
	if rf, ok := ret.Get(0).(func() error); ok {
		r0 = rf()
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

func (_m *MockTransport) Probe(ctx context.Context, src int, tag int) (Status, error) {
	ret := _m.Called(ctx, src, tag)

	var r0 Status
	if rf, ok := ret.Get(0).(func(context.Context, int, int) Status); ok {
		r0 = rf(ctx, src, tag)
	} else {
		r0 = ret.Get(0).(Status)
	}

	var r1 error
	if rf, ok := ret.Get(1).(func(context.Context, int, int) error); ok {
		r1 = rf(ctx, src, tag)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

func (_m *MockTransport) Rank() int {
	ret := _m.Called()

	var r0 int
	if rf, ok := ret.Get(0).(func() int); ok {
		r0 = rf()
	} else {
		r0 = ret.Get(0).(int)
	}

	return r0
}

func (_m *MockTransport) Receive(ctx context.Context, src int, tag int, buf []int) (Status, error) {
	ret := _m.Called(ctx, src, tag, buf)

	var r0 Status
	if rf, ok := ret.Get(0).(func(context.Context, int, int, []int) Status); ok {
		r0 = rf(ctx, src, tag, buf)
	} else {
		r0 = ret.Get(0).(Status)
	}

	var r1 error
	if rf, ok := ret.Get(1).(func(context.Context, int, int, []int) error); ok {
		r1 = rf(ctx, src, tag, buf)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

func (_m *MockTransport) Send(ctx context.Context, dst int, tag int, data []int) error {
	ret := _m.Called(ctx, dst, tag, data)

	var r0 error
	if rf, ok := ret.Get(0).(func(context.Context, int, int, []int) error); ok {
		r0 = rf(ctx, dst, tag, data)
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

func (_m *MockTransport) Size() int {
	ret := _m.Called()

	var r0 int
	if rf, ok := ret.Get(0).(func() int); ok {
		r0 = rf()
	} else {
		r0 = ret.Get(0).(int)
	}

	return r0
}
