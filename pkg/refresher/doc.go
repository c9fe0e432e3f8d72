// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
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

// Package refresher periodically rebuilds the suggestion index from its
// source and swaps it into the store.
//
// Each cycle loads every record, builds a brand-new index and replaces the
// store snapshot in one step. A failed cycle leaves the previous snapshot
// live; the failure is logged and counted and the next tick tries again.
//
//	r, err := refresher.New(src, store, refresher.WithInterval(15*time.Minute))
//	if err != nil {
//	    return err
//	}
//	if err := r.Reload(ctx); err != nil {
//	    return err // startup load is fatal
//	}
//	go r.Start(ctx)
package refresher
