// Package identity resolves who a data export belongs to.
package identity

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/user"
	"path/filepath"
	"strings"

	"github.com/poiesic/udmine/core"
)

// UsernameFile is the file under the data root that names the export owner.
const UsernameFile = "username"

// UserIdentity holds the data root and the user every parser is invoked with.
type UserIdentity struct {
	DataRoot string
	User     string
}

// Resolver infers a user name from a data root.
type Resolver interface {
	ResolveUser(dataRoot string) (string, error)
}

// ResolverFunc adapts a function to the Resolver interface.
type ResolverFunc func(dataRoot string) (string, error)

func (f ResolverFunc) ResolveUser(dataRoot string) (string, error) {
	return f(dataRoot)
}

// Static always resolves to name.
func Static(name string) Resolver {
	return ResolverFunc(func(string) (string, error) {
		return name, nil
	})
}

// FileResolver reads the first non-empty line of <dataRoot>/username and
// falls back to the current OS account name.
type FileResolver struct{}

func (FileResolver) ResolveUser(dataRoot string) (string, error) {
	name, err := readUsernameFile(filepath.Join(dataRoot, UsernameFile))
	if err == nil && name != "" {
		return name, nil
	}
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return "", err
	}

	u, err := user.Current()
	if err != nil {
		return "", fmt.Errorf("failed to determine user: %w", err)
	}
	return u.Username, nil
}

func readUsernameFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			return line, nil
		}
	}
	return "", scanner.Err()
}

// New validates dataRoot and resolves the user. An empty user is inferred
// through resolver; a nil resolver means FileResolver.
// A missing or non-directory data root wraps core.ErrDataRootMissing.
func New(dataRoot, userName string, resolver Resolver) (*UserIdentity, error) {
	if err := CheckDataRoot(dataRoot); err != nil {
		return nil, err
	}

	if userName == "" {
		if resolver == nil {
			resolver = FileResolver{}
		}
		var err error
		userName, err = resolver.ResolveUser(dataRoot)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve user: %w", err)
		}
	}

	return &UserIdentity{DataRoot: dataRoot, User: userName}, nil
}

// CheckDataRoot returns an error wrapping core.ErrDataRootMissing unless
// dataRoot is an existing directory.
func CheckDataRoot(dataRoot string) error {
	if dataRoot == "" {
		return fmt.Errorf("%w: empty path", core.ErrDataRootMissing)
	}
	info, err := os.Stat(dataRoot)
	if err != nil {
		return fmt.Errorf("%w: %w", core.ErrDataRootMissing, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", core.ErrDataRootMissing, dataRoot)
	}
	return nil
}

// String renders the identity's fields, one per line.
func (u *UserIdentity) String() string {
	return fmt.Sprintf("data_root: %s\nuser: %s\n", u.DataRoot, u.User)
}
