/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package medcheck_test

import (
	"context"
	"testing"

	"github.com/hyperledger-labs/fabric-papernet/papernet/driver"
	"github.com/hyperledger-labs/fabric-papernet/papernet/records/medcheck"
	"github.com/hyperledger-labs/fabric-papernet/papernet/services/invoker"
	"github.com/hyperledger-labs/fabric-papernet/papernet/services/logging"
	"github.com/hyperledger-labs/fabric-papernet/papernet/services/metrics"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
)

var (
	felipe = medcheck.Person{
		Name:      "Felipe",
		LastName:  "Perez",
		BirthDate: "1992-06-08",
		Ethnicity: "white",
		Gender:    "male",
		DeathDate: "",
	}
	amoxicillin = medcheck.DrugExposure{
		DrugName:  "Amoxicillin",
		StartDate: "2019-06-18",
		EndDate:   "2019-06-22",
		Dosage:    "Dosis description.",
		Quantity:  12,
		Diagnosis: "Patient was diagnosed with xxx desease.",
	}
)

const garcia001 = `{
  "doctor": "Garcia",
  "checkId": "001",
  "date": "2019-06-18",
  "person": {"name":"Felipe","lastName":"Perez","birthDate":"1992-06-08","ethnicity":"white","gender":"male","deathDate":""},
  "drugExposure": {"drugName":"Amoxicillin","startDate":"2019-06-18","endDate":"2019-06-22","dosis":"Dosis description.","quantity":12,"diagnosis":"Patient was diagnosed with xxx desease."}
}`

type contractMock struct {
	mock.Mock
}

func (m *contractMock) Submit(ctx context.Context, name string, args ...[]byte) ([]byte, error) {
	res := m.Called(name, args)
	raw, _ := res.Get(0).([]byte)
	return raw, res.Error(1)
}

func (m *contractMock) Evaluate(ctx context.Context, name string, args ...[]byte) ([]byte, error) {
	res := m.Called(name, args)
	raw, _ := res.Get(0).([]byte)
	return raw, res.Error(1)
}

func (m *contractMock) TransactionName(name string) string { return "org.papernet.commercialpaper:" + name }

func (m *contractMock) String() string { return "mychannel:papercontract:org.papernet.commercialpaper" }

func newInvoker(t *testing.T) *invoker.Invoker {
	t.Helper()
	p, err := metrics.NewProvider(metrics.Disabled)
	require.NoError(t, err)
	return invoker.New(invoker.DefaultCatalog(), logging.MustGetLogger("papernet.medcheck.test"), noop.NewTracerProvider(), p)
}

func TestRoundTrip(t *testing.T) {
	for _, m := range []*medcheck.MedicalCheck{
		{Doctor: "Garcia", CheckID: "001", Date: "2019-06-18", Person: felipe, DrugExposure: amoxicillin},
		{Doctor: "Garcia", CheckID: "002"},
		{Doctor: "Garcia", CheckID: "003", Person: medcheck.Person{Name: "Ana", DeathDate: "2021-01-01"}},
	} {
		raw, err := m.Bytes()
		require.NoError(t, err)
		decoded, err := medcheck.FromBytes(raw)
		require.NoError(t, err)
		assert.Equal(t, m, decoded)
	}
}

func TestDecode(t *testing.T) {
	m, err := medcheck.FromBytes([]byte(garcia001))
	require.NoError(t, err)
	assert.Equal(t, &medcheck.MedicalCheck{Doctor: "Garcia", CheckID: "001", Date: "2019-06-18", Person: felipe, DrugExposure: amoxicillin}, m)
	assert.Equal(t, "Garcia:001", m.ID())
}

func TestDecodeFailures(t *testing.T) {
	for name, raw := range map[string]string{
		"truncated":         garcia001[:120],
		"quantity string":   `{"doctor":"Garcia","checkId":"001","drugExposure":{"quantity":"12"}}`,
		"negative quantity": `{"doctor":"Garcia","checkId":"001","drugExposure":{"quantity":-1}}`,
		"decimal quantity":  `{"doctor":"Garcia","checkId":"001","drugExposure":{"quantity":1.5}}`,
		"missing check id":  `{"doctor":"Garcia"}`,
		"person not object": `{"doctor":"Garcia","checkId":"001","person":"Felipe"}`,
	} {
		t.Run(name, func(t *testing.T) {
			m, err := medcheck.FromBytes([]byte(raw))
			require.Error(t, err)
			assert.Nil(t, m)
			assert.True(t, errors.Is(err, driver.ErrDecode))
		})
	}
}

func TestUpdate(t *testing.T) {
	c := &contractMock{}
	c.On("Submit", "update", mock.MatchedBy(func(a [][]byte) bool {
		return len(a) == 4 &&
			string(a[0]) == "Garcia" &&
			string(a[1]) == "001" &&
			assert.JSONEq(t, `{"name":"Felipe","lastName":"Perez","birthDate":"1992-06-08","ethnicity":"white","gender":"male","deathDate":""}`, string(a[2])) &&
			assert.JSONEq(t, `{"drugName":"Amoxicillin","startDate":"2019-06-18","endDate":"2019-06-22","dosis":"Dosis description.","quantity":12,"diagnosis":"Patient was diagnosed with xxx desease."}`, string(a[3]))
	})).Return([]byte(garcia001), nil).Once()

	m, err := invoker.Submit[*medcheck.MedicalCheck](context.Background(), newInvoker(t), c, medcheck.Update{
		Doctor:       "Garcia",
		CheckID:      "001",
		Person:       felipe,
		DrugExposure: amoxicillin,
	})
	require.NoError(t, err)
	assert.Equal(t, uint64(12), m.DrugExposure.Quantity)
	assert.Equal(t, "Felipe", m.Person.Name)
	assert.Empty(t, m.Person.DeathDate)
	c.AssertExpectations(t)
}

func TestCreateAndQuery(t *testing.T) {
	c := &contractMock{}
	c.On("Submit", "create", mock.Anything).Return([]byte(garcia001), nil).Once()
	c.On("Evaluate", "query", [][]byte{[]byte("Garcia"), []byte("001")}).Return([]byte(garcia001), nil).Once()

	inv := newInvoker(t)
	created, err := invoker.Submit[*medcheck.MedicalCheck](context.Background(), inv, c, medcheck.Create{
		Doctor:       "Garcia",
		CheckID:      "001",
		Person:       felipe,
		DrugExposure: amoxicillin,
	})
	require.NoError(t, err)

	queried, err := invoker.Evaluate[*medcheck.MedicalCheck](context.Background(), inv, c, medcheck.Query{Doctor: "Garcia", CheckID: "001"})
	require.NoError(t, err)
	assert.Equal(t, created, queried)
	c.AssertExpectations(t)
}

func TestQueryMismatch(t *testing.T) {
	c := &contractMock{}
	c.On("Evaluate", "query", mock.Anything).Return([]byte(`{"doctor":"Garcia\t","checkId":"002"}`), nil).Once()

	m, err := invoker.Evaluate[*medcheck.MedicalCheck](context.Background(), newInvoker(t), c, medcheck.Query{Doctor: "Garcia", CheckID: "001"})
	require.Error(t, err)
	assert.Nil(t, m)
	assert.True(t, errors.Is(err, driver.ErrDecode))
	assert.Contains(t, err.Error(), "ledger returned check [GarciaX:002], expected [Garcia:001]")
}

func TestInvalidArguments(t *testing.T) {
	_, err := medcheck.Create{CheckID: "001"}.Args()
	assert.True(t, errors.Is(err, driver.ErrInvalidArgument))
	_, err = medcheck.Update{Doctor: "Garcia"}.Args()
	assert.True(t, errors.Is(err, driver.ErrInvalidArgument))
	_, err = medcheck.Query{}.Args()
	assert.True(t, errors.Is(err, driver.ErrInvalidArgument))
}
