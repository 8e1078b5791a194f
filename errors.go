// Package btindex
//
// (C) Copyright Alex Gaetano Padula
//
// Licensed under the Mozilla Public License, v. 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// https://www.mozilla.org/en-US/MPL/2.0/
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package btindex

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// ErrConstraintViolation is matched by every error caused by a uniqueness conflict
var ErrConstraintViolation = errors.New("constraint violation")

// ConstraintViolation reports an insert of a key that already exists in a unique index
type ConstraintViolation struct {
	Index string // Name of the index that rejected the key
	Key   any    // The duplicate key
}

// Error implements error
func (e *ConstraintViolation) Error() string {
	return fmt.Sprintf("constraint violation: index %s already contains key %v", e.Index, e.Key)
}

// Is lets errors.Is match ErrConstraintViolation
func (e *ConstraintViolation) Is(target error) bool {
	return target == ErrConstraintViolation
}

// IsConstraintViolation reports whether err, or anything it wraps, is a uniqueness conflict
func IsConstraintViolation(err error) bool {
	return errors.Is(err, ErrConstraintViolation)
}
