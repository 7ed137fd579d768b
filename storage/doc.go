// Copyright 2025 Poiesic Systems
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


// Package storage defines the persistence interfaces of the engine.
//
// Two backends cooperate: a relational ThoughtStore holding the canonical
// thought and entity records (and serving the keyword retrieval path), and
// a VectorIndex holding one embedding entry per thought (serving the
// semantic retrieval path). Both are scoped per user on every operation.
package storage
