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


// Package search provides hybrid search over a user's thoughts.
//
// A raw query string is parsed into a structured request (free text plus
// type/date/tag/mood/sort filters), then two retrieval paths run
// concurrently: semantic lookup against the vector index and keyword
// lookup against the relational store. Candidates from both paths are
// merged by thought id and scored with a weighted combination of
// semantic similarity, keyword overlap, recency and entity confidence.
//
// The semantic path is best-effort: if embedding or the vector lookup
// fails, the search degrades to keyword-only results and the response
// carries a degraded flag. The keyword path is mandatory; its failure
// fails the request.
//
// When a search returns no results, the searcher proposes alternative
// terms drawn from the user's own entities and content.
package search
