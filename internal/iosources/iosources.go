// Package iosources turns migration source descriptors into migration
// units. It implements lifecycle.Resolver and only reads the filesystem.
package iosources

import (
	"os"
	"strings"

	"github.com/gnames/gnfixture/pkg/fixture"
	"github.com/gnames/gnfixture/pkg/lifecycle"
)

type iosources struct {
	loader lifecycle.SetLoader
}

// New creates a Resolver that loads migration directories with loader.
func New(loader lifecycle.SetLoader) lifecycle.Resolver {
	res := iosources{loader: loader}
	return &res
}

// Resolve classifies every path: a directory is a migration set, a
// regular file is a raw script. The output keeps the input order.
func (s *iosources) Resolve(paths []string) ([]fixture.Unit, error) {
	res := make([]fixture.Unit, 0, len(paths))
	for i, path := range paths {
		u, err := s.resolve(i, path)
		if err != nil {
			return nil, err
		}
		res = append(res, u)
	}
	return res, nil
}

func (s *iosources) resolve(idx int, path string) (fixture.Unit, error) {
	info, err := os.Stat(path)
	if err != nil {
		reason := "cannot access path"
		if os.IsNotExist(err) {
			reason = "path does not exist"
		}
		return nil, &fixture.InvalidSourceError{
			Index:  idx,
			Path:   path,
			Reason: reason,
			Err:    NotFoundError(path, err),
		}
	}

	switch {
	case info.IsDir():
		steps, err := s.loader.LoadSet(path)
		if err != nil {
			return nil, &fixture.InvalidSourceError{
				Index:  idx,
				Path:   path,
				Reason: "invalid migration directory",
				Err:    err,
			}
		}
		return &fixture.MigrationSet{Path: path, Steps: steps}, nil

	case info.Mode().IsRegular():
		bs, err := os.ReadFile(path)
		if err != nil {
			return nil, &fixture.InvalidSourceError{
				Index:  idx,
				Path:   path,
				Reason: "cannot read script",
				Err:    ReadError(path, err),
			}
		}
		if strings.TrimSpace(string(bs)) == "" {
			return nil, &fixture.InvalidSourceError{
				Index:  idx,
				Path:   path,
				Reason: "script is empty",
				Err:    EmptyScriptError(path),
			}
		}
		return &fixture.RawScript{Origin: path, SQL: string(bs)}, nil

	default:
		return nil, &fixture.InvalidSourceError{
			Index:  idx,
			Path:   path,
			Reason: "neither a directory nor a regular file",
			Err:    KindError(path, info.Mode().String()),
		}
	}
}
