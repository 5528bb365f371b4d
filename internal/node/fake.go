package node

import "context"

// FakeInspector returns fixed answers, for tests across packages.
type FakeInspector struct {
	Fixed   Role
	Version string
	Err     error
}

func (f *FakeInspector) Role(context.Context) (Role, error) {
	return f.Fixed, f.Err
}

func (f *FakeInspector) ServerVersion(context.Context) string {
	return f.Version
}
