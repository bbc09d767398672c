// Package jsp (JSON persistence) saves and loads arbitrary JSON-encoded
// structures with the atomic write sequence required by spec.md §4.4.4:
// write to a temp file, fsync, rename. Every xl.meta write in the tree --
// user objects (pipeline package) and registry records (registry package),
// both via fs.SaveMeta -- goes through Save; raw shard files (part.N) use
// cos.WriteFileAtomic instead.
/*
 * Copyright (c) 2018-2020, NVIDIA CORPORATION. All rights reserved.
 */
package jsp

import (
	"os"

	"github.com/NVIDIA/buckets/cmn"
	"github.com/NVIDIA/buckets/cmn/cos"
	jsoniter "github.com/json-iterator/go"
)

// Save JSON-encodes v and atomically installs it at filepath. On any
// failure the partially-written temp file is removed; filepath itself is
// never left in a partial state.
func Save(filepath string, v interface{}) (err error) {
	tmp := filepath + ".tmp." + cmn.GenTie()
	file, err := cos.CreateFile(tmp)
	if err != nil {
		return cmn.WrapError(cmn.KindIOError, err, "create temp file %s", tmp)
	}
	defer func() {
		if err != nil {
			cos.RemoveFile(tmp)
		}
	}()
	enc := jsoniter.NewEncoder(file)
	if err = enc.Encode(v); err != nil {
		cos.Close(file)
		return cmn.WrapError(cmn.KindIOError, err, "encode %s", filepath)
	}
	if err = cos.FlushClose(file); err != nil {
		return cmn.WrapError(cmn.KindIOError, err, "flush/close %s", tmp)
	}
	if err = os.Rename(tmp, filepath); err != nil {
		return cmn.WrapError(cmn.KindIOError, err, "rename %s -> %s", tmp, filepath)
	}
	return nil
}

// Load reads and JSON-decodes filepath into v.
func Load(filepath string, v interface{}) error {
	file, err := os.Open(filepath)
	if err != nil {
		if os.IsNotExist(err) {
			return cmn.WrapError(cmn.KindNotFound, err, "%s", filepath)
		}
		return cmn.WrapError(cmn.KindIOError, err, "open %s", filepath)
	}
	defer file.Close()
	dec := jsoniter.NewDecoder(file)
	if err := dec.Decode(v); err != nil {
		return cmn.WrapError(cmn.KindIOError, err, "decode %s", filepath)
	}
	return nil
}

// Exists reports whether filepath is present, without reading it.
func Exists(filepath string) bool {
	_, err := os.Stat(filepath)
	return err == nil
}
