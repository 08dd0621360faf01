package main

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/submersibletoaster/tilematcher/config"
)

func TestObserverDisabled(t *testing.T) {
	cfg = config.Default()
	cfg.ProgressEvery = 0
	assert.Nil(t, observer())

	cfg.ProgressEvery = 5
	assert.NotNil(t, observer())
}

func TestBarObserver(t *testing.T) {
	b := &barObserver{}
	b.Progress(1, 4)
	if assert.NotNil(t, b.bar) {
		assert.Equal(t, int64(1), b.bar.Current())
		assert.Equal(t, int64(4), b.bar.Total())
	}
	b.Progress(4, 4)
	assert.Equal(t, int64(4), b.bar.Current())
}
