package logger

import (
	"testing"

	"github.com/op/go-logging"
	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, logging.DEBUG, ParseLevel("debug"))
	assert.Equal(t, logging.WARNING, ParseLevel("warn"))
	assert.Equal(t, logging.WARNING, ParseLevel("WARNING"))
	assert.Equal(t, logging.ERROR, ParseLevel("error"))
	assert.Equal(t, logging.INFO, ParseLevel(""))
	assert.Equal(t, logging.INFO, ParseLevel("zgomot"))
}
