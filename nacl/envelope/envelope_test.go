package envelope

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/TheusHen/tweetnacl/nacl/box"
	"github.com/TheusHen/tweetnacl/nacl/secretbox"
)

var plain = bytes.Repeat([]byte("naclbox envelope "), 200)

func TestSecretRoundTrip(t *testing.T) {
	key, err := secretbox.GenerateKey()
	require.NoError(t, err)

	for _, opts := range []Options{{}, {Compress: true}, {Compress: true, Level: LevelBest}, {Compress: true, Level: LevelFast}} {
		env, err := SealSecret(plain, &key, opts)
		require.NoError(t, err)

		h, _, err := Inspect(env)
		require.NoError(t, err)
		require.Equal(t, ModeSecretbox, h.Mode)
		require.Equal(t, opts.Compress, h.Compressed)

		got, err := Open(env, Keys{Secret: &key})
		require.NoError(t, err)
		require.Equal(t, plain, got)
	}
}

func TestCompressionShrinks(t *testing.T) {
	key, _ := secretbox.GenerateKey()
	raw, err := SealSecret(plain, &key, Options{})
	require.NoError(t, err)
	small, err := SealSecret(plain, &key, Options{Compress: true})
	require.NoError(t, err)
	require.Less(t, len(small), len(raw))
}

func TestIncompressibleStoredRaw(t *testing.T) {
	key, _ := secretbox.GenerateKey()
	noise := secretbox.Seal(plain, &secretbox.Nonce{}, &key)
	env, err := SealSecret(noise, &key, Options{Compress: true})
	require.NoError(t, err)
	h, _, err := Inspect(env)
	require.NoError(t, err)
	require.False(t, h.Compressed)
	got, err := Open(env, Keys{Secret: &key})
	require.NoError(t, err)
	require.Equal(t, noise, got)
}

func TestBoxRoundTrip(t *testing.T) {
	alice, err := box.GenerateKey()
	require.NoError(t, err)
	bob, err := box.GenerateKey()
	require.NoError(t, err)

	env, err := SealBox(plain, &bob.PublicKey, alice, Options{Compress: true})
	require.NoError(t, err)

	h, _, err := Inspect(env)
	require.NoError(t, err)
	require.Equal(t, ModeBox, h.Mode)
	require.Equal(t, alice.PublicKey, h.Sender)

	got, err := Open(env, Keys{Box: &bob.SecretKey})
	require.NoError(t, err)
	require.Equal(t, plain, got)

	got, err = Open(env, Keys{Box: &bob.SecretKey, Sender: &alice.PublicKey})
	require.NoError(t, err)
	require.Equal(t, plain, got)

	_, err = Open(env, Keys{Box: &bob.SecretKey, Sender: &bob.PublicKey})
	require.ErrorIs(t, err, ErrOpenFailed)

	_, err = Open(env, Keys{Box: &alice.SecretKey})
	require.ErrorIs(t, err, ErrOpenFailed)
}

func TestBoxSharedKeyCache(t *testing.T) {
	alice, err := box.GenerateKey()
	require.NoError(t, err)
	bob, err := box.GenerateKey()
	require.NoError(t, err)
	carol, err := box.GenerateKey()
	require.NoError(t, err)

	sendCache, err := box.NewKeyCache(4)
	require.NoError(t, err)
	var envs [][]byte
	for _, msg := range []string{"one", "two", "three"} {
		env, err := SealBox([]byte(msg), &bob.PublicKey, alice, Options{Cache: sendCache})
		require.NoError(t, err)
		envs = append(envs, env)
	}
	require.Equal(t, 1, sendCache.Len())

	fromCarol, err := SealBox([]byte("four"), &bob.PublicKey, carol, Options{})
	require.NoError(t, err)
	envs = append(envs, fromCarol)

	openCache, err := box.NewKeyCache(4)
	require.NoError(t, err)
	keys := Keys{Box: &bob.SecretKey, Cache: openCache}
	for i, want := range []string{"one", "two", "three", "four"} {
		got, err := Open(envs[i], keys)
		require.NoError(t, err)
		require.Equal(t, want, string(got))
	}
	require.Equal(t, 2, openCache.Len())

	// A cached key for the wrong recipient still fails to open.
	_, err = Open(envs[0], Keys{Box: &carol.SecretKey, Cache: openCache})
	require.ErrorIs(t, err, ErrOpenFailed)
}

func TestOpenErrors(t *testing.T) {
	key, _ := secretbox.GenerateKey()
	other, _ := secretbox.GenerateKey()
	env, err := SealSecret([]byte("hi"), &key, Options{})
	require.NoError(t, err)

	_, err = Open(env, Keys{})
	require.ErrorIs(t, err, ErrMissingKey)

	_, err = Open(env, Keys{Secret: &other})
	require.ErrorIs(t, err, ErrOpenFailed)

	_, err = Open(env[:len(env)-1], Keys{Secret: &key})
	require.ErrorIs(t, err, ErrTruncated)

	_, err = Open(env[:10], Keys{Secret: &key})
	require.ErrorIs(t, err, ErrTruncated)

	bad := append([]byte(nil), env...)
	bad[0] = 'X'
	_, err = Open(bad, Keys{Secret: &key})
	require.ErrorIs(t, err, ErrBadMagic)

	bad = append([]byte(nil), env...)
	bad[4] = 9
	_, err = Open(bad, Keys{Secret: &key})
	require.ErrorIs(t, err, ErrUnsupportedVersion)

	bad = append([]byte(nil), env...)
	bad[5] = 7
	_, err = Open(bad, Keys{Secret: &key})
	require.ErrorIs(t, err, ErrUnknownMode)

	bad = append([]byte(nil), env...)
	bad[len(bad)-1] ^= 1
	_, err = Open(bad, Keys{Secret: &key})
	require.ErrorIs(t, err, ErrOpenFailed)
}

func TestShardRoundTrip(t *testing.T) {
	key, _ := secretbox.GenerateKey()
	env, err := SealSecret(plain, &key, Options{Compress: true})
	require.NoError(t, err)

	shards, err := Split(env, 4, 2)
	require.NoError(t, err)
	require.Len(t, shards, 6)

	// lose two, shuffle the rest
	subset := [][]byte{shards[5], shards[1], shards[3], shards[4]}
	joined, err := Join(subset)
	require.NoError(t, err)
	require.Equal(t, env, joined)

	got, err := Open(joined, Keys{Secret: &key})
	require.NoError(t, err)
	require.Equal(t, plain, got)
}

func TestShardTooManyLost(t *testing.T) {
	shards, err := Split(plain, 4, 2)
	require.NoError(t, err)
	_, err = Join(shards[3:])
	require.ErrorIs(t, err, ErrTooManyLost)

	_, err = Join(nil)
	require.ErrorIs(t, err, ErrTooManyLost)
}

func TestShardErrors(t *testing.T) {
	_, err := Split(plain, 0, 2)
	require.ErrorIs(t, err, ErrInvalidShardCount)
	_, err = Split(plain, 200, 100)
	require.ErrorIs(t, err, ErrInvalidShardCount)

	a, err := Split(plain, 3, 1)
	require.NoError(t, err)
	b, err := Split(plain[:100], 3, 1)
	require.NoError(t, err)
	_, err = Join([][]byte{a[0], b[1]})
	require.ErrorIs(t, err, ErrShardMismatch)

	bad := append([]byte(nil), a[0]...)
	bad = bad[:len(bad)-1]
	_, err = Join([][]byte{bad})
	require.ErrorIs(t, err, ErrBadShard)

	h, body, err := ParseShard(a[2])
	require.NoError(t, err)
	require.Equal(t, uint8(2), h.Index)
	require.Equal(t, uint64(len(plain)), h.OriginalSize)
	require.Len(t, body, int(h.ShardLength))
}

func TestDecompressBounded(t *testing.T) {
	bomb, err := compress(make([]byte, 1<<20), LevelBest)
	require.NoError(t, err)
	require.Less(t, len(bomb), 1<<14)

	_, err = decompress(bomb, 1<<16)
	require.ErrorIs(t, err, ErrPayloadTooLarge)

	out, err := decompress(bomb, 1<<20)
	require.NoError(t, err)
	require.Len(t, out, 1<<20)
}

func TestShardOversizedOriginal(t *testing.T) {
	shards, err := Split([]byte("hello envelope payload"), 2, 1)
	require.NoError(t, err)

	sizeOff := len(ShardMagic) + 3
	for _, size := range []uint64{^uint64(0), 1 << 40, 0} {
		forged := make([][]byte, len(shards))
		for i, s := range shards {
			forged[i] = append([]byte(nil), s...)
			binary.BigEndian.PutUint64(forged[i][sizeOff:], size)
		}
		_, _, err := ParseShard(forged[0])
		require.ErrorIs(t, err, ErrBadShard)
		require.NotPanics(t, func() {
			_, err = Join(forged)
		})
		require.ErrorIs(t, err, ErrBadShard)
	}
}

func BenchmarkSealSecretCompressed(b *testing.B) {
	key, _ := secretbox.GenerateKey()
	b.SetBytes(int64(len(plain)))
	for i := 0; i < b.N; i++ {
		_, _ = SealSecret(plain, &key, Options{Compress: true})
	}
}
