package dieselvk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	vk "github.com/vulkan-go/vulkan"
)

// scriptedWait returns the results in order, then Success forever.
func scriptedWait(results ...vk.Result) (func() vk.Result, *int) {
	calls := 0
	return func() vk.Result {
		defer func() { calls++ }()
		if calls < len(results) {
			return results[calls]
		}
		return vk.Success
	}, &calls
}

func TestWaitWithRetryImmediateSuccess(t *testing.T) {
	wait, calls := scriptedWait()
	retries, err := waitWithRetry("vkWaitForFences", wait)
	require.NoError(t, err)
	assert.Equal(t, 0, retries)
	assert.Equal(t, 1, *calls)
}

func TestWaitWithRetryTransient(t *testing.T) {
	wait, calls := scriptedWait(vk.Timeout, vk.Timeout, vk.NotReady)
	retries, err := waitWithRetry("vkWaitForFences", wait)
	require.NoError(t, err)
	assert.Equal(t, 3, retries)
	assert.Equal(t, 4, *calls)
}

func TestWaitWithRetryHasNoLimit(t *testing.T) {
	results := make([]vk.Result, 5000)
	for i := range results {
		results[i] = vk.Timeout
	}
	wait, _ := scriptedWait(results...)
	retries, err := waitWithRetry("vkWaitForFences", wait)
	require.NoError(t, err)
	assert.Equal(t, 5000, retries)
}

func TestWaitWithRetryFailure(t *testing.T) {
	wait, calls := scriptedWait(vk.Timeout, vk.ErrorDeviceLost, vk.Timeout)
	retries, err := waitWithRetry("vkWaitForFences", wait)
	require.Error(t, err)
	assert.Equal(t, 1, retries)
	assert.Equal(t, 2, *calls)

	ret, ok := ResultOf(err)
	require.True(t, ok)
	assert.Equal(t, vk.ErrorDeviceLost, ret)

	var re *ResultError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, "vkWaitForFences", re.Op)
}
