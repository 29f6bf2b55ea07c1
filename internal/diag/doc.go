// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

// Package diag defines the diagnostic kinds the looking glass can run
// and the stateless classification of the output lines they produce.
package diag
