package cmn

import "strings"

// ObjectName is (bucket, key) per spec.md §3.
type ObjectName struct {
	Bucket string
	Key    string
}

func (o ObjectName) Bytes() []byte {
	return []byte(o.Bucket + "/" + o.Key)
}

// ValidateBucket enforces: 3-63 lowercase alphanumerics plus '-' and '.',
// no "..", no trailing '-'.
func ValidateBucket(bucket string) error {
	if len(bucket) < 3 || len(bucket) > 63 {
		return NewError(KindInvalidArgument, "bucket name %q must be 3-63 chars", bucket)
	}
	if strings.Contains(bucket, "..") {
		return NewError(KindInvalidArgument, "bucket name %q must not contain '..'", bucket)
	}
	if strings.HasSuffix(bucket, "-") {
		return NewError(KindInvalidArgument, "bucket name %q must not end in '-'", bucket)
	}
	for _, c := range bucket {
		switch {
		case c >= 'a' && c <= 'z':
		case c >= '0' && c <= '9':
		case c == '-' || c == '.':
		default:
			return NewError(KindInvalidArgument, "bucket name %q contains invalid character %q", bucket, c)
		}
	}
	return nil
}

// ValidateKey enforces: 1-1024 bytes, no leading '/'.
func ValidateKey(key string) error {
	if len(key) < 1 || len(key) > 1024 {
		return NewError(KindInvalidArgument, "object key must be 1-1024 bytes, got %d", len(key))
	}
	if strings.HasPrefix(key, "/") {
		return NewError(KindInvalidArgument, "object key %q must not start with '/'", key)
	}
	return nil
}

func ValidateObjectName(o ObjectName) error {
	if err := ValidateBucket(o.Bucket); err != nil {
		return err
	}
	return ValidateKey(o.Key)
}

// IsReservedBucket reports whether bucket is the registry's self-hosting
// bucket, which spec.md §6 says "must not be creatable by external clients."
func IsReservedBucket(bucket string) bool {
	return bucket == RegistryBucket
}

// DeploymentID is the 16 random bytes chosen once per cluster, spec.md §3.
type DeploymentID [16]byte

// K0K1 splits the deployment id into the two little-endian 64-bit SipHash keys.
func (d DeploymentID) K0K1() (k0, k1 uint64) {
	k0 = leUint64(d[0:8])
	k1 = leUint64(d[8:16])
	return
}

func leUint64(b []byte) uint64 {
	var v uint64
	for i := 7; i >= 0; i-- {
		v = v<<8 | uint64(b[i])
	}
	return v
}
