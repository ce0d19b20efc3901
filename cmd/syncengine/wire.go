// Copyright 2024 The Movies Search Sync Authors
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
//
// SPDX-License-Identifier: Apache-2.0

//go:build wireinject
// +build wireinject

package main

import (
	"context"

	"github.com/google/wire"

	"github.com/movies-search/syncengine/internal/config"
	"github.com/movies-search/syncengine/internal/driver"
)

// InitializeApp wires the full provider graph into a runnable Driver.
func InitializeApp(ctx context.Context, cfg *config.Config) (*driver.Driver, func(), error) {
	wire.Build(ProviderSet)
	return nil, nil, nil
}
