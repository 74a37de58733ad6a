// Copyright 2025 The Rivaas Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package validation checks decoded request bodies against struct tags
// using github.com/go-playground/validator/v10.
//
// A [Validator] plugs into any codec through codec.WithValidator; a failed
// check surfaces to the client as a 422 deserialization error whose details
// list the offending fields.
//
// Example:
//
//	type CreateUser struct {
//	    Email string `json:"email" validate:"required,email"`
//	    Age   int    `json:"age" validate:"gte=18"`
//	}
//
//	v := validation.MustNew()
//	in := router.Body(codec.JSON[CreateUser](codec.WithValidator(v)))
package validation
