package mocks

import "sync/atomic"

// StaticToken is a TokenSource holding a fixed bearer credential.
type StaticToken struct {
	value atomic.Value
}

func NewStaticToken(token string) *StaticToken {
	t := &StaticToken{}
	t.value.Store(token)
	return t
}

func (t *StaticToken) Token() string {
	token, _ := t.value.Load().(string)
	return token
}

func (t *StaticToken) Set(token string) {
	t.value.Store(token)
}

// LockFlag is a LockGate toggled by tests.
type LockFlag struct {
	locked atomic.Bool
}

func (l *LockFlag) Locked() bool {
	return l.locked.Load()
}

func (l *LockFlag) Lock() {
	l.locked.Store(true)
}
