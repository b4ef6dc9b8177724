package preflight

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/dustin/go-humanize"
	"golang.org/x/sys/unix"
)

func pass(name, format string, args ...any) Result {
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf(format, args...)}
}

func fail(name, format string, args ...any) Result {
	return Result{Name: name, Detail: fmt.Sprintf(format, args...)}
}

// CheckDirectoryAccess passes when path is a directory the current user can
// list, read and create files in.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return fail(name, "%s does not exist", path)
	case err != nil:
		return fail(name, "%s: stat: %v", path, err)
	case !info.IsDir():
		return fail(name, "%s is not a directory", path)
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return fail(name, "%s: insufficient permissions: %v", path, err)
	}
	return pass(name, "%s is writable", path)
}

// CheckFreeSpace passes when the filesystem holding path has at least
// required bytes available to unprivileged users.
func CheckFreeSpace(name, path string, required uint64) Result {
	var st unix.Statfs_t
	if err := unix.Statfs(path, &st); err != nil {
		return fail(name, "%s: statfs: %v", path, err)
	}
	available := st.Bavail * uint64(st.Bsize)
	detail := humanize.IBytes(available) + " free, " + humanize.IBytes(required) + " required"
	if available < required {
		return fail(name, "%s", detail)
	}
	return pass(name, "%s", detail)
}
