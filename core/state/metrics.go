// Copyright 2024 The ddc Authors
// This file is part of the ddc library.
//
// The ddc library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The ddc library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the ddc library. If not, see <http://www.gnu.org/licenses/>.

package state

import "github.com/tos-network/ddc/metrics"

var (
	storageUpdatedMeter   = metrics.NewRegisteredMeter("state/update/storage", nil)
	storageDeletedMeter   = metrics.NewRegisteredMeter("state/delete/storage", nil)
	storageCacheHitMeter  = metrics.NewRegisteredMeter("state/cache/hit", nil)
	storageCacheMissMeter = metrics.NewRegisteredMeter("state/cache/miss", nil)
	storageRevertMeter    = metrics.NewRegisteredMeter("state/revert", nil)
)
