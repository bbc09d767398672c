package asyncio

import (
	"github.com/karrick/godirwalk"

	"github.com/NVIDIA/buckets/fs"
)

// ObjectDirFunc is invoked once per object directory found under a disk
// root (a leaf directory containing xl.meta), not per individual file.
type ObjectDirFunc func(path string) error

// WalkObjectDirs scans a disk root for object directories using
// godirwalk's scandir-based walker, which avoids the per-entry lstat calls
// of filepath.Walk -- the same efficiency tradeoff the teacher makes in
// fs/walk.go for mountpath content scans, here retargeted from
// aistore's FQN layout to the "<2-hex>/<16-hex>/" layout of spec.md §4.4.1.
func WalkObjectDirs(root string, fn ObjectDirFunc) error {
	return godirwalk.Walk(root, &godirwalk.Options{
		Unsorted: true,
		Callback: func(path string, de *godirwalk.Dirent) error {
			if !de.IsDir() {
				return nil
			}
			if !hasMeta(path) {
				return nil
			}
			return fn(path)
		},
		ErrorCallback: func(_ string, err error) godirwalk.ErrorAction {
			return godirwalk.SkipNode
		},
	})
}

func hasMeta(dirPath string) bool {
	return fs.Exists(dirPath + "/" + fs.MetaFileName)
}
