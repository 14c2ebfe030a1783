package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSubmitRate_ParsesConfiguredValue(t *testing.T) {
	rate := submitRate("10-S")

	assert.Equal(t, int64(10), rate.Limit)
	assert.Equal(t, time.Second, rate.Period)
}

func TestSubmitRate_FallsBackOnBadValue(t *testing.T) {
	rate := submitRate("not-a-rate")

	assert.Equal(t, int64(30), rate.Limit)
	assert.Equal(t, time.Minute, rate.Period)
}
