package types_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pagekv/pagekv-go/internal/types"
)

func TestErrWarn(t *testing.T) {
	var warn types.ErrWarn

	assert.NoError(t, warn.If())
	assert.Equal(t, 0, warn.Len())
	warn.Add("skipped record %d", 3)
	assert.Error(t, warn.If())
	assert.Equal(t, []string{"skipped record 3"}, warn.Warnings)

	warn.Add("skipped record %d", 7)
	assert.Equal(t, 2, warn.Len())
	assert.Equal(t, "skipped record 3\nskipped record 7", warn.If().Error())

	var target *types.ErrWarn
	assert.True(t, errors.As(fmt.Errorf("load: %w", warn.If()), &target))
	assert.Equal(t, "skipped record 3\nskipped record 7", target.If().Error())
}
