package aprs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculatePasscode(t *testing.T) {
	code, err := CalculatePasscode("N0CALL")
	require.NoError(t, err)
	assert.Equal(t, 13023, code)

	withSSID, err := CalculatePasscode("n0call-9")
	require.NoError(t, err)
	assert.Equal(t, code, withSSID)

	_, err = CalculatePasscode("")
	assert.Error(t, err)
	_, err = CalculatePasscode("TOOLONG1")
	assert.Error(t, err)
}

func TestVerifyPasscode(t *testing.T) {
	assert.True(t, VerifyPasscode("IK2ABC-7", 19115))
	assert.False(t, VerifyPasscode("IK2ABC-7", 19116))
	assert.False(t, VerifyPasscode("", -1))
}
