package cos

import (
	"os"
)

// CreateFile creates fn (and its parent directory, mode 0755, per spec.md
// §4.4.4) truncating any previous content. Parent creation is idempotent.
func CreateFile(fn string) (*os.File, error) {
	if err := MkdirAll(ParentDir(fn)); err != nil {
		return nil, err
	}
	return os.OpenFile(fn, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
}

func MkdirAll(dir string) error {
	if dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0755)
}

func ParentDir(fn string) string {
	i := len(fn) - 1
	for i >= 0 && fn[i] != '/' {
		i--
	}
	if i < 0 {
		return ""
	}
	return fn[:i]
}

// FlushClose fsyncs then closes f, per the atomic-write sequence of
// spec.md §4.4.4: write -> fsync -> rename.
func FlushClose(f *os.File) error {
	if err := f.Sync(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func Close(f *os.File) {
	f.Close()
}

func RemoveFile(fn string) error {
	err := os.Remove(fn)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// WriteFileAtomic implements the write sequence of spec.md §4.4.4: write to
// "<path>.tmp.<tie>", fsync, rename. Used for raw shard content (part.N);
// cmn/jsp.Save implements the same sequence for JSON metadata.
func WriteFileAtomic(path string, data []byte, tieBreaker string) (err error) {
	tmp := path + ".tmp." + tieBreaker
	f, err := CreateFile(tmp)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			RemoveFile(tmp)
		}
	}()
	if _, err = f.Write(data); err != nil {
		Close(f)
		return err
	}
	if err = FlushClose(f); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
