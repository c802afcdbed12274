package crypto

import (
	"encoding/hex"
	"strings"
	"testing"
	"time"

	"github.com/LeJamon/goRippled/internal/crypto/mock"
	"github.com/LeJamon/goRippled/internal/metrics"
	"github.com/golang/mock/gomock"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSha512Half(t *testing.T) {
	got := Sha512Half([]byte("fakeRandomString"))
	assert.Equal(t, "bb3eca8985e1484fa6a28c4b30fb0042a2cc5df3ec8dc37b5f3d126ddfd3ca14", hex.EncodeToString(got[:]))

	split := Sha512Half([]byte("fakeRandom"), []byte("String"))
	assert.Equal(t, got, split)

	assert.Equal(t, Sha512Half([]byte("TXN\x00"), []byte("x")), PrefixedHash(HashPrefixTransactionID, []byte("x")))
}

func TestPublicKeyType(t *testing.T) {
	tests := []struct {
		name     string
		pubKey   string
		expected KeyType
	}{
		{name: "ed25519", pubKey: "ED9434799226374926EDA3B54B1B461B4ABF7237962EAE18528FEA67595397FA32", expected: KeyTypeEd25519},
		{name: "secp256k1 02", pubKey: "0330E7FC9D56BB25D6893BA3F317AE5BCF33B3291BD63DB32654A313222F7FD020", expected: KeyTypeSecp256k1},
		{name: "uncompressed prefix", pubKey: "0430E7FC9D56BB25D6893BA3F317AE5BCF33B3291BD63DB32654A313222F7FD020", expected: KeyTypeUnknown},
		{name: "too short", pubKey: "0330E7FC9D56BB25D6893BA3F317AE5BCF33B3291BD63DB32654A313222F7FD0", expected: KeyTypeUnknown},
		{name: "empty", pubKey: "", expected: KeyTypeUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pubKey, _ := hex.DecodeString(tt.pubKey)
			assert.Equal(t, tt.expected, PublicKeyType(pubKey))
		})
	}
	assert.Equal(t, "unknown", KeyType(99).String())
}

func TestCalcAccountID(t *testing.T) {
	// Master public key of the genesis account.
	pub, err := hex.DecodeString("0330E7FC9D56BB25D6893BA3F317AE5BCF33B3291BD63DB32654A313222F7FD020")
	require.NoError(t, err)
	assert.Equal(t, "rHb9CJAWyB4rj91VRWn96DkukG4bwdtyTh", CalcAccountID(pub).String())
}

func TestSignAndVerify(t *testing.T) {
	secpKey, err := hex.DecodeString("1ACAAEDECE405B2A958212629E16F2EB46B153EEE94CDD350FDEFF52795525B7")
	require.NoError(t, err)
	secp, err := NewSecp256k1Signer(secpKey)
	require.NoError(t, err)

	ed, err := NewEd25519Signer(make([]byte, 32))
	require.NoError(t, err)

	msg := []byte("settle this")
	for name, signer := range map[string]Signer{"secp256k1": secp, "ed25519": ed} {
		t.Run(name, func(t *testing.T) {
			sig, err := signer.Sign(msg)
			require.NoError(t, err)

			v := SignatureVerifier{}
			assert.True(t, v.Verify(msg, signer.PublicKey(), sig))
			assert.False(t, v.Verify([]byte("something else"), signer.PublicKey(), sig))

			tampered := append([]byte(nil), sig...)
			tampered[len(tampered)-1] ^= 0x01
			assert.False(t, v.Verify(msg, signer.PublicKey(), tampered))
		})
	}

	_, err = NewSecp256k1Signer(make([]byte, 32))
	require.ErrorIs(t, err, ErrInvalidPrivateKey)
	_, err = NewEd25519Signer([]byte{1})
	require.ErrorIs(t, err, ErrInvalidPrivateKey)
}

func TestIsCanonicalECDSA(t *testing.T) {
	tests := []struct {
		name string
		sig  string
		want bool
	}{
		{name: "minimal", sig: "3006020101020101", want: true},
		{name: "bad tag", sig: "3106020101020101", want: false},
		{name: "bad length", sig: "3007020101020101", want: false},
		{name: "zero r", sig: "3006020100020101", want: false},
		{name: "negative s", sig: "3006020101020181", want: false},
		{name: "padded r", sig: "300702020001020101", want: false},
		{name: "trailing bytes", sig: "300702010102010100", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sig, err := hex.DecodeString(tt.sig)
			require.NoError(t, err)
			assert.Equal(t, tt.want, IsCanonicalECDSA(sig))
		})
	}
}

func TestCachingVerifier(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	inner := mock.NewMockVerifier(ctrl)
	inner.EXPECT().Verify([]byte("m"), []byte("k"), []byte("s")).Return(true).Times(1)
	inner.EXPECT().Verify([]byte("m"), []byte("k"), []byte("bad")).Return(false).Times(1)

	reg := prometheus.NewRegistry()
	v := NewCachingVerifier(inner, time.Minute)
	v.Metrics = metrics.MustNew(reg)

	assert.True(t, v.Verify([]byte("m"), []byte("k"), []byte("s")))
	assert.True(t, v.Verify([]byte("m"), []byte("k"), []byte("s")))
	assert.False(t, v.Verify([]byte("m"), []byte("k"), []byte("bad")))
	assert.False(t, v.Verify([]byte("m"), []byte("k"), []byte("bad")))
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(`
# HELP rippled_signature_cache_hits_total Signature checks answered from the verification cache.
# TYPE rippled_signature_cache_hits_total counter
rippled_signature_cache_hits_total 2
# HELP rippled_signature_cache_lookups_total Signature checks that consulted the verification cache.
# TYPE rippled_signature_cache_lookups_total counter
rippled_signature_cache_lookups_total 4
`), "rippled_signature_cache_hits_total", "rippled_signature_cache_lookups_total"))
}
