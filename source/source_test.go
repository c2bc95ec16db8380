package source

import (
	"context"
	"errors"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lookPath(t *testing.T, name string) {
	t.Helper()
	if _, err := exec.LookPath(name); err != nil {
		t.Skipf("%s not available: %v", name, err)
	}
}

func TestParse(t *testing.T) {
	c, err := Parse("  python3  python/get_matrix_data.py ", time.Second)
	require.NoError(t, err)
	assert.Equal(t, "python3", c.Name)
	assert.Equal(t, []string{"python/get_matrix_data.py"}, c.Args)
	assert.Equal(t, time.Second, c.Timeout)
	assert.Equal(t, "python3 python/get_matrix_data.py", c.String())

	_, err = Parse(" \t", time.Second)
	assert.Error(t, err)
}

func TestFunc(t *testing.T) {
	sentinel := errors.New("boom")
	var p Provider = Func(func(ctx context.Context) error {
		return sentinel
	})
	assert.ErrorIs(t, p.Produce(context.Background()), sentinel)
}

func TestCommandExitStatus(t *testing.T) {
	lookPath(t, "true")
	lookPath(t, "false")

	assert.NoError(t, (&Command{Name: "true"}).Produce(context.Background()))
	assert.Error(t, (&Command{Name: "false"}).Produce(context.Background()))
}

func TestCommandMissing(t *testing.T) {
	err := (&Command{Name: "paintwall-does-not-exist"}).Produce(context.Background())
	assert.Error(t, err)

	assert.Error(t, (&Command{}).Produce(context.Background()))
}

func TestCommandTimeout(t *testing.T) {
	lookPath(t, "sleep")

	start := time.Now()
	err := (&Command{Name: "sleep", Args: []string{"10"}, Timeout: 50 * time.Millisecond}).Produce(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, int64(time.Since(start)), int64(5*time.Second))
}

func TestCommandTimeoutBackgroundChild(t *testing.T) {
	lookPath(t, "sh")
	lookPath(t, "sleep")

	start := time.Now()
	err := (&Command{Name: "sh", Args: []string{"-c", "sleep 6 & sleep 6"}, Timeout: 100 * time.Millisecond}).Produce(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, int64(time.Since(start)), int64(3*time.Second))
}

func TestCommandCancelled(t *testing.T) {
	lookPath(t, "sh")
	lookPath(t, "sleep")

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(50*time.Millisecond, cancel)

	start := time.Now()
	err := (&Command{Name: "sh", Args: []string{"-c", "sleep 6 & sleep 6"}}).Produce(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Less(t, int64(time.Since(start)), int64(3*time.Second))
}
