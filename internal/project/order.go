// Package project lays out a motion project on disk: numbered scene folders,
// the project.yaml configuration, the compiled-in scene catalog and the
// timeline built from per-scene duration estimates.
package project

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strconv"
)

// folderPattern matches scene folder names such as "1-intro".
var folderPattern = regexp.MustCompile(`^(\d+)-(.*)$`)

// Folder is one numbered scene folder.
type Folder struct {
	// Index is the leading scene number.
	Index int `json:"index"`
	// Name is the part after the number, e.g. "intro".
	Name string `json:"name"`
	// Dir is the folder name as found on disk, e.g. "1-intro".
	Dir string `json:"dir"`
}

// OrderErrorCode categorises scene ordering failures.
type OrderErrorCode string

const (
	// ErrCodeBadName indicates a folder not named NUMBER-NAME.
	ErrCodeBadName OrderErrorCode = "BAD_SCENE_NAME"

	// ErrCodeDuplicateIndex indicates two folders share a number.
	ErrCodeDuplicateIndex OrderErrorCode = "DUPLICATE_SCENE_INDEX"

	// ErrCodeMissingIndex indicates a gap in the numbering.
	ErrCodeMissingIndex OrderErrorCode = "MISSING_SCENE_INDEX"
)

// OrderError reports a scene numbering violation with enough context to fix
// it: the conflicting folders, or the missing number and the folder to
// renumber.
type OrderError struct {
	Code OrderErrorCode

	// Index is the duplicated or missing scene number.
	Index int

	// Sources are the folders involved. Duplicates name both folders; a gap
	// names the folder after it.
	Sources []string

	// Previous is the last valid number before a gap.
	Previous int

	// Suggest is the prefix the first source should be renamed to start with.
	Suggest string
}

// Error implements the error interface.
func (e *OrderError) Error() string {
	switch e.Code {
	case ErrCodeDuplicateIndex:
		return fmt.Sprintf("%s: duplicate scene number %d: %q and %q; change one of them",
			e.Code, e.Index, e.Sources[0], e.Sources[1])
	case ErrCodeMissingIndex:
		return fmt.Sprintf("%s: missing scene number %d: scene #%d is followed by %q; rename it to start with %q",
			e.Code, e.Index, e.Previous, e.Sources[0], e.Suggest)
	default:
		return fmt.Sprintf("%s: invalid scene folder %q: folders must look like NUMBER-NAME (e.g. 1-intro)",
			e.Code, e.Sources[0])
	}
}

// IsOrderError reports whether err is an OrderError.
// Uses errors.As to handle wrapped errors.
func IsOrderError(err error) bool {
	var oe *OrderError
	return errors.As(err, &oe)
}

// IsDuplicateIndex reports whether err is a duplicate scene number.
func IsDuplicateIndex(err error) bool {
	var oe *OrderError
	return errors.As(err, &oe) && oe.Code == ErrCodeDuplicateIndex
}

// IsMissingIndex reports whether err is a gap in the scene numbering.
func IsMissingIndex(err error) bool {
	var oe *OrderError
	return errors.As(err, &oe) && oe.Code == ErrCodeMissingIndex
}

// ParseFolder splits a scene folder name into its number and name.
func ParseFolder(dir string) (Folder, error) {
	m := folderPattern.FindStringSubmatch(dir)
	if m == nil {
		return Folder{}, &OrderError{Code: ErrCodeBadName, Sources: []string{dir}}
	}
	index, err := strconv.Atoi(m[1])
	if err != nil {
		return Folder{}, &OrderError{Code: ErrCodeBadName, Sources: []string{dir}}
	}
	return Folder{Index: index, Name: m[2], Dir: dir}, nil
}

// Order parses dirs and returns them sorted by scene number. Numbers must
// run 1, 2, 3 ... with no duplicates and no gaps.
func Order(dirs []string) ([]Folder, error) {
	folders := make([]Folder, 0, len(dirs))
	for _, d := range dirs {
		f, err := ParseFolder(d)
		if err != nil {
			return nil, err
		}
		folders = append(folders, f)
	}

	sort.SliceStable(folders, func(i, j int) bool {
		if folders[i].Index != folders[j].Index {
			return folders[i].Index < folders[j].Index
		}
		return folders[i].Dir < folders[j].Dir
	})

	for i, f := range folders {
		expected := i + 1
		if f.Index == expected {
			continue
		}
		for j, other := range folders {
			if j != i && other.Index == f.Index {
				first, second := other.Dir, f.Dir
				if j > i {
					first, second = f.Dir, other.Dir
				}
				return nil, &OrderError{
					Code:    ErrCodeDuplicateIndex,
					Index:   f.Index,
					Sources: []string{first, second},
				}
			}
		}
		return nil, &OrderError{
			Code:     ErrCodeMissingIndex,
			Index:    expected,
			Sources:  []string{f.Dir},
			Previous: expected - 1,
			Suggest:  fmt.Sprintf("%d-", expected),
		}
	}
	return folders, nil
}
