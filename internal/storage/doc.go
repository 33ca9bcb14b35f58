/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package storage persists the board.
// The board file is plain text, one record per line with ",,"-separated
// fields, written transactionally with timestamped backups next to it.
// A per-board SQLite history index at <dir>/.blackboard/history.sqlite
// records launches and searches; it is disposable and rebuilt on demand.
package storage
