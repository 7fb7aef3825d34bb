// LocShield - Real-Time GPS Spoofing Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/locshield

package detection

// severityTable maps each event kind to its risk and DREAD breakdown.
var severityTable = map[Kind]Assessment{
	KindClean: {
		Risk:  1,
		Dread: Dread{Damage: 1, Reproducibility: 1, Exploitability: 1, AffectedUsers: 1, Discoverability: 1},
	},
	KindMockProviderActive: {
		Risk:  9,
		Dread: Dread{Damage: 8, Reproducibility: 9, Exploitability: 7, AffectedUsers: 8, Discoverability: 6},
	},
	KindConfirmedSpoof: {
		Risk:  10,
		Dread: Dread{Damage: 10, Reproducibility: 10, Exploitability: 8, AffectedUsers: 9, Discoverability: 7},
	},
	KindAttackSignal: {
		Risk:  9,
		Dread: Dread{Damage: 9, Reproducibility: 10, Exploitability: 9, AffectedUsers: 7, Discoverability: 8},
	},
	KindExcessiveAccess: {
		Risk:  8,
		Dread: Dread{Damage: 7, Reproducibility: 10, Exploitability: 8, AffectedUsers: 6, Discoverability: 9},
	},
	KindThirdPartyAccess: {
		Risk:  5,
		Dread: Dread{Damage: 4, Reproducibility: 6, Exploitability: 4, AffectedUsers: 5, Discoverability: 6},
	},
	KindAudit: {
		Risk:  3,
		Dread: Dread{Damage: 2, Reproducibility: 3, Exploitability: 2, AffectedUsers: 3, Discoverability: 4},
	},
}

// neutralAssessment applies to kinds missing from the table.
var neutralAssessment = Assessment{
	Risk:  5,
	Dread: Dread{Damage: 5, Reproducibility: 5, Exploitability: 5, AffectedUsers: 5, Discoverability: 5},
}

// Score returns the severity of an event kind. Unknown kinds get the neutral
// assessment (risk 5, DREAD 25). Score has no side effects.
func Score(kind Kind) Assessment {
	if a, ok := severityTable[kind]; ok {
		return a
	}
	return neutralAssessment
}
