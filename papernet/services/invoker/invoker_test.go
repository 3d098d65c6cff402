/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package invoker_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/hyperledger-labs/fabric-papernet/papernet/driver"
	"github.com/hyperledger-labs/fabric-papernet/papernet/services/invoker"
	"github.com/hyperledger-labs/fabric-papernet/papernet/services/logging"
	"github.com/hyperledger-labs/fabric-papernet/papernet/services/metrics"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
)

type contractMock struct {
	mock.Mock
}

func (m *contractMock) Submit(ctx context.Context, name string, args ...[]byte) ([]byte, error) {
	res := m.Called(ctx, name, args)
	raw, _ := res.Get(0).([]byte)
	return raw, res.Error(1)
}

func (m *contractMock) Evaluate(ctx context.Context, name string, args ...[]byte) ([]byte, error) {
	res := m.Called(ctx, name, args)
	raw, _ := res.Get(0).([]byte)
	return raw, res.Error(1)
}

func (m *contractMock) TransactionName(name string) string { return "org.test:" + name }

func (m *contractMock) String() string { return "mychannel:testcc:org.test" }

type lookup struct {
	invoker.Evaluating
	key string
}

func (l lookup) Name() string { return "query" }

func (l lookup) Args() ([][]byte, error) {
	if len(l.key) == 0 {
		return nil, errors.New("empty key")
	}
	return [][]byte{[]byte(l.key)}, nil
}

func (l lookup) Decode(raw []byte) (string, error) {
	if len(raw) == 0 {
		return "", errors.New("empty result")
	}
	return string(raw), nil
}

type store struct {
	invoker.Submitting
	key, value string
}

func (s store) Name() string { return "create" }

func (s store) Args() ([][]byte, error) { return [][]byte{[]byte(s.key), []byte(s.value)}, nil }

func (s store) Decode(raw []byte) (int, error) { return len(raw), nil }

// a single invoker registers the prometheus metrics once for the whole package
var inv = newInvoker()

func newInvoker() *invoker.Invoker {
	p, err := metrics.NewProvider(metrics.Prometheus)
	if err != nil {
		panic(err)
	}
	return invoker.New(invoker.DefaultCatalog(), logging.MustGetLogger("papernet.invoker.test"), noop.NewTracerProvider(), p)
}

func TestCatalog(t *testing.T) {
	c := invoker.DefaultCatalog()
	for _, name := range []string{"create", "update", "issue", "buy", "redeem"} {
		assert.NoError(t, c.Check(name, invoker.SubmitPath))
		assert.True(t, errors.Is(c.Check(name, invoker.EvaluatePath), driver.ErrWrongPath))
	}
	assert.NoError(t, c.Check("query", invoker.EvaluatePath))
	assert.True(t, errors.Is(c.Check("query", invoker.SubmitPath), driver.ErrWrongPath))
	assert.True(t, errors.Is(c.Check("transfer", invoker.SubmitPath), driver.ErrInvalidArgument))

	assert.Equal(t, "submit", invoker.SubmitPath.String())
	assert.Equal(t, "evaluate", invoker.EvaluatePath.String())
	assert.Equal(t, "unknown", invoker.Path(0).String())
}

func TestEvaluate(t *testing.T) {
	c := &contractMock{}
	c.On("Evaluate", mock.Anything, "query", [][]byte{[]byte("k1")}).Return([]byte("v1"), nil).Once()

	res, err := invoker.Evaluate[string](context.Background(), inv, c, lookup{key: "k1"})
	require.NoError(t, err)
	assert.Equal(t, "v1", res)
	c.AssertExpectations(t)
	c.AssertNotCalled(t, "Submit", mock.Anything, mock.Anything, mock.Anything)
}

func TestSubmit(t *testing.T) {
	c := &contractMock{}
	c.On("Submit", mock.Anything, "create", [][]byte{[]byte("k1"), []byte("v1")}).Return([]byte("{}"), nil).Once()

	res, err := invoker.Submit[int](context.Background(), inv, c, store{key: "k1", value: "v1"})
	require.NoError(t, err)
	assert.Equal(t, 2, res)
	c.AssertExpectations(t)
	c.AssertNotCalled(t, "Evaluate", mock.Anything, mock.Anything, mock.Anything)
}

func TestInvokeWrongPath(t *testing.T) {
	c := &contractMock{}

	_, err := inv.Invoke(context.Background(), c, invoker.SubmitPath, "query", nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, driver.ErrWrongPath))

	_, err = inv.Invoke(context.Background(), c, invoker.EvaluatePath, "issue", nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, driver.ErrWrongPath))

	_, err = inv.Invoke(context.Background(), c, invoker.EvaluatePath, "transfer", nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, driver.ErrInvalidArgument))

	// nothing reached the network
	c.AssertNotCalled(t, "Submit", mock.Anything, mock.Anything, mock.Anything)
	c.AssertNotCalled(t, "Evaluate", mock.Anything, mock.Anything, mock.Anything)
}

func TestInvokeUnknownPath(t *testing.T) {
	p, err := metrics.NewProvider(metrics.Disabled)
	require.NoError(t, err)
	catalog := invoker.DefaultCatalog()
	catalog["audit"] = invoker.Path(7)
	i := invoker.New(catalog, logging.MustGetLogger("papernet.invoker.test"), noop.NewTracerProvider(), p)

	c := &contractMock{}
	for _, tt := range []struct {
		name string
		path invoker.Path
	}{
		{"audit", invoker.Path(7)},
		{"audit", invoker.SubmitPath},
		{"query", invoker.Path(0)},
	} {
		res, err := i.Invoke(context.Background(), c, tt.path, tt.name, nil)
		require.Error(t, err)
		assert.Nil(t, res)
		assert.True(t, errors.Is(err, driver.ErrWrongPath), "%s on %d: %v", tt.name, tt.path, err)
	}
	assert.False(t, invoker.Path(7).Valid())
	assert.True(t, invoker.SubmitPath.Valid())

	c.AssertNotCalled(t, "Submit", mock.Anything, mock.Anything, mock.Anything)
	c.AssertNotCalled(t, "Evaluate", mock.Anything, mock.Anything, mock.Anything)
}

func TestErrorsPropagateUnchanged(t *testing.T) {
	endorsement := driver.Errorf(driver.ErrEndorsement, "chaincode rejected")
	evaluation := driver.Errorf(driver.ErrEvaluation, "paper not found")

	c := &contractMock{}
	c.On("Submit", mock.Anything, "create", mock.Anything).Return(nil, endorsement).Once()
	c.On("Evaluate", mock.Anything, "query", mock.Anything).Return(nil, evaluation).Once()

	_, err := invoker.Submit[int](context.Background(), inv, c, store{key: "k1"})
	assert.Equal(t, endorsement, err)

	_, err = invoker.Evaluate[string](context.Background(), inv, c, lookup{key: "k1"})
	assert.Equal(t, evaluation, err)
}

func TestArgumentAndDecodeFailures(t *testing.T) {
	c := &contractMock{}
	c.On("Evaluate", mock.Anything, "query", mock.Anything).Return([]byte{}, nil).Once()

	_, err := invoker.Evaluate[string](context.Background(), inv, c, lookup{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, driver.ErrInvalidArgument))

	_, err = invoker.Evaluate[string](context.Background(), inv, c, lookup{key: "k1"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, driver.ErrDecode))
	c.AssertExpectations(t)
}

func TestInvocationMetrics(t *testing.T) {
	c := &contractMock{}
	c.On("Evaluate", mock.Anything, "query", mock.Anything).Return([]byte("v1"), nil).Once()
	_, err := invoker.Evaluate[string](context.Background(), inv, c, lookup{key: "k1"})
	require.NoError(t, err)

	buf := &bytes.Buffer{}
	require.NoError(t, metrics.Dump(buf))
	assert.Contains(t, buf.String(), `papernet_invocations{operation="query",path="evaluate",success="true"}`)
	assert.Contains(t, buf.String(), `papernet_invocation_duration_count{operation="query",path="evaluate",success="true"}`)
}
