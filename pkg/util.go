package pkg

import (
	"os"
	"unsafe"
)

// BytesToString converts bytes slice to a string without extra allocation
func BytesToString(buf []byte) string {
	return *(*string)(unsafe.Pointer(&buf))
}

// PathExists returns whether the given file or directory exists
func PathExists(path string, isDir bool) (bool, error) {
	stat, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	if isDir != stat.IsDir() {
		return false, &os.PathError{Op: "stat", Path: path, Err: errTypeMismatch(isDir)}
	}
	return true, nil
}

type errTypeMismatch bool

func (e errTypeMismatch) Error() string {
	if e {
		return "is not a directory"
	}
	return "is a directory"
}
