// Copyright (c) 2023 IndyKite
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package test holds generated mocks for this module's narrow interfaces,
// so tests elsewhere can exercise code against canned driver behavior
// without a real database connection.
package test

//go:generate mockgen -copyright_file ../doc/LICENSE -package test -destination ./adapter_mock.go github.com/sqlschema/migrate/driver Adapter
