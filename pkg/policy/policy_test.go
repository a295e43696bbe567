package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ars-protocol/ars-core/pkg/governance"
	"github.com/ars-protocol/ars-core/pkg/protoerr"
)

func TestSchemalessKindAcceptsOpaqueBytes(t *testing.T) {
	r := NewRegistry()
	res, err := r.Validate(governance.PolicyMintAsset, []byte{0xDE, 0xAD, 0xBE, 0xEF})
	require.NoError(t, err)
	assert.Nil(t, res.CanonicalJSON)
	assert.Contains(t, res.ParamsHash, "sha256:")
}

func TestDefaultMintSchema(t *testing.T) {
	r := DefaultRegistry()

	res, err := r.Validate(governance.PolicyMintAsset, []byte(`{"amount": 1000}`))
	require.NoError(t, err)
	assert.Equal(t, `{"amount":1000}`, string(res.CanonicalJSON))
	assert.NotEmpty(t, res.ParamsHash)
}

func TestMissingRequiredField(t *testing.T) {
	r := DefaultRegistry()
	_, err := r.Validate(governance.PolicyUpdateRatio, []byte(`{}`))
	assert.ErrorIs(t, err, protoerr.ErrInvalidPolicyParams)
}

func TestTypeMismatch(t *testing.T) {
	r := DefaultRegistry()
	_, err := r.Validate(governance.PolicyBurnAsset, []byte(`{"amount": "lots"}`))
	assert.ErrorIs(t, err, protoerr.ErrInvalidPolicyParams)
}

func TestUnknownFieldRejected(t *testing.T) {
	r := DefaultRegistry()
	_, err := r.Validate(governance.PolicyMintAsset, []byte(`{"amount": 1, "memo": "x"}`))
	assert.ErrorIs(t, err, protoerr.ErrInvalidPolicyParams)
}

func TestAllowExtra(t *testing.T) {
	r := NewRegistry()
	r.Register(governance.PolicyMintAsset, &Schema{
		Fields:     map[string]FieldSpec{"amount": {Type: "number", Required: true}},
		AllowExtra: true,
	})
	_, err := r.Validate(governance.PolicyMintAsset, []byte(`{"amount": 1, "memo": "x"}`))
	assert.NoError(t, err)
}

func TestNonJSONRejectedWhenSchemaPresent(t *testing.T) {
	r := DefaultRegistry()
	_, err := r.Validate(governance.PolicyMintAsset, []byte{0x00, 0x01})
	assert.ErrorIs(t, err, protoerr.ErrInvalidPolicyParams)
}

func TestOptionalFieldMayBeAbsent(t *testing.T) {
	r := DefaultRegistry()
	_, err := r.Validate(governance.PolicyRebalanceVault, []byte(`{}`))
	assert.NoError(t, err)
}

func TestCanonicalizationNormalizesKeyOrder(t *testing.T) {
	r := NewRegistry()
	r.Register(governance.PolicyMintAsset, &Schema{
		Fields: map[string]FieldSpec{
			"amount": {Type: "number", Required: true},
			"asset":  {Type: "string"},
		},
	})

	a, err := r.Validate(governance.PolicyMintAsset, []byte(`{"asset":"USDC","amount":5}`))
	require.NoError(t, err)
	b, err := r.Validate(governance.PolicyMintAsset, []byte(`{"amount":5,"asset":"USDC"}`))
	require.NoError(t, err)
	assert.Equal(t, a.ParamsHash, b.ParamsHash)
}
