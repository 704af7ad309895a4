package lemonway

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateAttributesMissingRequired(t *testing.T) {
	err := ValidateAttributes(Attributes{"id": 1}, []string{"id", "wallet"}, nil)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"wallet"}, verr.Missing)
	assert.Empty(t, verr.Unexpected)
}

func TestValidateAttributesUnexpectedKey(t *testing.T) {
	err := ValidateAttributes(Attributes{"id": 1, "wallet": 2, "wid": 2}, []string{"id", "wallet"}, nil)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Empty(t, verr.Missing)
	assert.Equal(t, []string{"wid"}, verr.Unexpected)
}

func TestValidateAttributesMisspelledKeyReportsBoth(t *testing.T) {
	err := ValidateAttributes(Attributes{"id": 1, "walet": 2}, []string{"id", "wallet"}, nil)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"wallet"}, verr.Missing)
	assert.Equal(t, []string{"walet"}, verr.Unexpected)
}

func TestValidateAttributesAcceptsCompleteSet(t *testing.T) {
	require.NoError(t, ValidateAttributes(Attributes{"id": 1, "wallet": 2}, []string{"id", "wallet"}, nil))
	require.NoError(t, ValidateAttributes(Attributes{}, nil, []string{"transactionId"}))
}

func TestValidateAttributesNormalizesInPlace(t *testing.T) {
	attrs := Attributes{"id": 1, "first_name": 2}

	require.NoError(t, ValidateAttributes(attrs, []string{"id", "firstName"}, nil))
	assert.Contains(t, attrs, "firstName")
	assert.NotContains(t, attrs, "first_name")
}

func TestNormalizeKeysRejectsCollisions(t *testing.T) {
	attrs := Attributes{"card_id": "a", "cardId": "b", "wallet": "w"}

	err := NormalizeKeys(attrs)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"cardId"}, verr.Duplicate)
	assert.Equal(t, Attributes{"card_id": "a", "cardId": "b", "wallet": "w"}, attrs)
}

func TestBuildRequestOrdersDefaultsThenCallKeys(t *testing.T) {
	p := Profile{Name: "test", Required: []string{"login", "pass"}, Optional: []string{"ua"}}
	op := NewOperation("register_card", []string{"wallet", "cardType"}, []string{"message"}, nil)
	defaults := Attributes{"pass": "p", "login": "l"}

	req, err := buildRequest(op.Method, p, op, defaults, Attributes{"message": "m", "card_type": 1, "wallet": "w", "login": "override"})
	require.NoError(t, err)

	var names []string
	for _, f := range req.Fields {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"login", "pass", "wallet", "cardType", "message"}, names)
	v, _ := req.Value("login")
	assert.Equal(t, "override", v)
	assert.Equal(t, "RegisterCard", req.Method)
	assert.Equal(t, Attributes{"pass": "p", "login": "l"}, defaults)
}

func TestBuildRequestNamesOperationOnFailure(t *testing.T) {
	op := NewOperation("get_wallet_details", []string{"wallet"}, nil, nil)

	_, err := buildRequest(op.Method, WebMerchant, op, Attributes{}, Attributes{"walet": "w"})

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "get_wallet_details", verr.Operation)
	assert.Contains(t, err.Error(), "missing wallet")
	assert.Contains(t, err.Error(), "unexpected walet")
}

func TestBuildRequestWithoutOperationSortsExtraKeys(t *testing.T) {
	req, err := buildRequest("Ping", WebMerchant, nil, Attributes{}, Attributes{"zeta": 1, "alpha_key": 2})
	require.NoError(t, err)

	require.Len(t, req.Fields, 2)
	assert.Equal(t, "alphaKey", req.Fields[0].Name)
	assert.Equal(t, "zeta", req.Fields[1].Name)
	assert.Equal(t, "Ping", req.Operation)
}

func TestBuildRequestRejectsNonElementNames(t *testing.T) {
	_, err := buildRequest("Ping", WebMerchant, nil, Attributes{}, Attributes{
		"bad key": 1,
		"_":       2,
		"ok":      map[string]any{"1st": "x", "fine": "y"},
		"ns:tag":  3,
	})

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "Ping", verr.Operation)
	assert.Equal(t, []string{"", "bad key", "ns:tag", "ok.1st"}, verr.Invalid)

	_, err = buildRequest("Bad Method", WebMerchant, nil, Attributes{}, Attributes{"wallet": "w"})
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, []string{"Bad Method"}, verr.Invalid)
}

func TestBuildRequestAcceptsElementNames(t *testing.T) {
	req, err := buildRequest("Ping", WebMerchant, nil, Attributes{}, Attributes{"dom1": "a", "wl-pdv": "b", "v1.2": "c"})
	require.NoError(t, err)
	assert.Len(t, req.Fields, 3)
}
