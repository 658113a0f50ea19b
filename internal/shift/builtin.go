package shift

import "ShiftEvidence/internal/domain"

// DefaultWeights returns the scoring constants most shifts run with.
func DefaultWeights() domain.ScoringWeights {
	return domain.ScoringWeights{
		BodyHitCap:            6,
		AnchorWeight:          0.8,
		TagWeight:             1.3,
		ParagraphAnchorWeight: 1.5,
		MinParagraphLen:       70,
		QuoteMaxChars:         520,
		StrongMin:             18,
		ModerateMin:           11,
	}
}

// RepublicShift covers the constitutional-era boundary at 2024.
func RepublicShift() domain.Shift {
	return domain.Shift{
		ID:            "republic_shift",
		MilestoneYear: 2024,
		Anchors: []string{
			"republic", "constitution", "constitutional", "democracy",
			"democratic", "citizenship", "citizen", "state", "institution",
			"majoritarian", "public sphere",
		},
		Before: domain.PhaseCatalog{
			Groups: []domain.KeywordGroup{
				{
					Name: "institutional_grammar",
					Probes: []string{
						"constitution", "constitutional", "institution", "nehru",
						"state", "citizenship", "citizen", "left and right",
						"secularism", "university",
					},
					Connection: "Strongly linked to Phase 1 because it interrogates constitutional-institutional grammar central to the First Republic.",
				},
				{
					Name: "decay_diagnostics",
					Probes: []string{
						"drying up", "sadness", "banal", "mediocre", "decay",
						"hollow", "crisis", "erosion", "impoverishes", "violence",
					},
					Connection: "Strongly linked to Phase 1 because it diagnoses democratic erosion within First Republic structures.",
				},
				{
					Name: "democratic_urgency",
					Probes: []string{
						"public sphere", "civil society", "dissent", "rights",
						"ethics", "morality", "democracy",
					},
					Connection: "Strongly linked to Phase 1 because it treats ethics, dissent, and civic urgency as responses to institutional decline.",
				},
			},
			TagSignals: []string{
				"democracy", "law-and-justice", "public-institutions",
				"public-sphere", "nationalism", "secularism", "education-policy",
			},
			FallbackConnection: "Links to Phase 1 by documenting cracks between constitutional form and lived democratic experience.",
		},
		After: domain.PhaseCatalog{
			Groups: []domain.KeywordGroup{
				{
					Name: "new_grammar",
					Probes: []string{
						"second republic", "new republic", "reimagining democracy",
						"improvis", "digital", "populist", "knowledge panchayat",
						"citizen back",
					},
					Connection: "Strongly linked to Phase 2 because it articulates emerging vocabularies of a contested Second Republic.",
				},
				{
					Name: "embodied_ethics",
					Probes: []string{
						"body politics", "yatra", "satyagraha", "playfulness",
						"moral", "ethics", "conscience", "peace",
					},
					Connection: "Strongly linked to Phase 2 because it shifts politics toward embodied action, moral imagination, and public pedagogy.",
				},
				{
					Name: "plural_futures",
					Probes: []string{
						"anthropocene", "ecocide", "cognitive justice", "plural",
						"commons", "survival", "knowledge systems",
					},
					Connection: "Strongly linked to Phase 2 because it reframes democratic futures through plural knowledge and ecological survival.",
				},
			},
			TagSignals: []string{
				"democracy", "pluralism", "ethics", "knowledge-systems",
				"ecology", "technology-and-society", "public-sphere",
			},
			FallbackConnection: "Links to Phase 2 by tracing emergent civic vocabularies beyond legacy institutional comfort.",
		},
		Weights: DefaultWeights(),
	}
}

// ScienceShift covers the knowledge-systems boundary at 2023. It runs with
// a slightly looser body cap and its own anchor/tag weights.
func ScienceShift() domain.Shift {
	weights := DefaultWeights()
	weights.BodyHitCap = 7
	weights.AnchorWeight = 0.85
	weights.TagWeight = 1.25
	weights.MinParagraphLen = 80

	return domain.Shift{
		ID:            "science_shift",
		MilestoneYear: 2023,
		Anchors: []string{
			"science", "scientific", "social science", "knowledge",
			"university", "expert", "innovation", "technology", "bureaucratic",
			"commons", "play", "playfulness", "panchayat", "cognitive justice",
			"public",
		},
		Before: domain.PhaseCatalog{
			Groups: []domain.KeywordGroup{
				{
					Name: "institutional_knowledge",
					Probes: []string{
						"university", "institute", "institution", "csds",
						"social science", "expert", "discipline", "bureaucratic",
						"big science", "state policy",
					},
					Connection: "Phase 1 link: diagnoses how institutional science narrowed public imagination and democratic learning.",
				},
				{
					Name: "diagnosing_closure",
					Probes: []string{
						"sadness", "gasping", "crisis", "hollow", "impoverished",
						"banal", "closure", "authoritarian", "violence",
					},
					Connection: "Phase 1 link: documents closure, exhaustion, and bureaucratic drift inside knowledge systems.",
				},
				{
					Name: "democratic_learning",
					Probes: []string{
						"commons", "public sphere", "dissent", "dialogue",
						"secularism", "democracy", "citizen", "rights",
					},
					Connection: "Phase 1 link: treats science as a civic commons with democratic stakes.",
				},
			},
			TagSignals: []string{
				"education-policy", "science-policy", "technology-and-society",
				"knowledge-systems", "public-institutions", "university",
				"secularism",
			},
			FallbackConnection: "Phase 1 link: exposes knowledge hierarchies in formal institutions.",
		},
		After: domain.PhaseCatalog{
			Groups: []domain.KeywordGroup{
				{
					Name: "distributed_publics",
					Probes: []string{
						"knowledge panchayat", "distributed", "plural",
						"cognitive justice", "orality", "commons", "publics",
						"citizen",
					},
					Connection: "Phase 2 link: advances distributed knowledge publics beyond expert monopolies.",
				},
				{
					Name: "playful_science",
					Probes: []string{
						"play", "playfulness", "creative", "imagination",
						"experiment", "beyond big science", "creative society",
					},
					Connection: "Phase 2 link: recasts science as creative, experimental, and publicly co-authored.",
				},
				{
					Name: "ethics_of_knowledge",
					Probes: []string{
						"ethics", "conscience", "humanity", "morality", "peace",
						"survival", "care",
					},
					Connection: "Phase 2 link: grounds knowledge politics in ethics, conscience, and social repair.",
				},
			},
			TagSignals: []string{
				"science-policy", "technology-and-society", "knowledge-systems",
				"public-institutions", "pluralism", "ethics", "public-sphere",
				"ecology",
			},
			FallbackConnection: "Phase 2 link: argues for cognitive justice and knowledge panchayats.",
		},
		Weights: weights,
	}
}

// EcologicalShift covers the Anthropocene boundary at 2021.
func EcologicalShift() domain.Shift {
	return domain.Shift{
		ID:            "ecological_shift",
		MilestoneYear: 2021,
		Anchors: []string{
			"ecology", "ecological", "environment", "climate", "nature",
			"anthropocene", "survival", "conservation", "commons",
		},
		Before: domain.PhaseCatalog{
			Groups: []domain.KeywordGroup{
				{
					Name: "managerial_conservation",
					Probes: []string{
						"conservation", "forest", "wildlife", "management",
						"development", "dam", "environment ministry", "project",
					},
					Connection: "Links to Phase 1 by reading ecology through managerial conservation and policy compromise.",
				},
				{
					Name: "policy_compromise",
					Probes: []string{
						"court", "tribunal", "regulation", "compensation",
						"governance", "state policy", "clearance",
					},
					Connection: "Links to Phase 1 by testing environmental governance limits inside development-era policy language.",
				},
				{
					Name: "civic_ecology",
					Probes: []string{
						"commons", "livelihood", "village", "farmer", "river",
						"water", "displacement",
					},
					Connection: "Links to Phase 1 by grounding environmental questions in livelihoods and the commons.",
				},
			},
			TagSignals: []string{
				"ecology", "environment-policy", "development",
				"public-institutions", "law-and-justice",
			},
			FallbackConnection: "Links to Phase 1 by widening development debates toward ecological citizenship and survival.",
		},
		After: domain.PhaseCatalog{
			Groups: []domain.KeywordGroup{
				{
					Name: "anthropocene_rupture",
					Probes: []string{
						"anthropocene", "ecocide", "climate", "extinction",
						"planetary", "rupture", "aravallis",
					},
					Connection: "Links to Phase 2 by centering Anthropocene rupture, ecocide, and the right to survive.",
				},
				{
					Name: "survival_rights",
					Probes: []string{
						"survival", "right to survive", "justice",
						"vulnerability", "care", "repair",
					},
					Connection: "Links to Phase 2 by treating ecological survival as central to the social contract.",
				},
				{
					Name: "plural_lifeworlds",
					Probes: []string{
						"shaman", "lifeworld", "plural", "sacred", "cosmology",
						"indigenous", "nature",
					},
					Connection: "Links to Phase 2 by moving ecology into civilizational risk and plural lifeworld thinking.",
				},
			},
			TagSignals: []string{
				"ecology", "pluralism", "ethics", "knowledge-systems",
				"technology-and-society", "public-sphere",
			},
			FallbackConnection: "Links to Phase 2 by placing ecological survival at the core of civic imagination.",
		},
		Weights: DefaultWeights(),
	}
}

// PoliticalShift covers the embodied-politics boundary at 2022.
func PoliticalShift() domain.Shift {
	return domain.Shift{
		ID:            "political_shift",
		MilestoneYear: 2022,
		Anchors: []string{
			"politics", "political", "democracy", "dissent", "citizen",
			"public", "movement", "protest", "yatra",
		},
		Before: domain.PhaseCatalog{
			Groups: []domain.KeywordGroup{
				{
					Name: "institutional_opposition",
					Probes: []string{
						"opposition", "parliament", "party", "election",
						"coalition", "civil society", "petition",
					},
					Connection: "Links to Phase 1 by reading politics through institutional opposition.",
				},
				{
					Name: "strategic_dissent",
					Probes: []string{
						"dissent", "protest", "rights", "movement", "campaign",
						"resistance", "strike",
					},
					Connection: "Links to Phase 1 by documenting strategic dissent and civil-society petitioning.",
				},
				{
					Name: "public_reason",
					Probes: []string{
						"secularism", "debate", "public sphere", "democracy",
						"citizen", "argument",
					},
					Connection: "Links to Phase 1 by defending public reason inside a strained institutional order.",
				},
			},
			TagSignals: []string{
				"democracy", "nationalism", "public-institutions",
				"law-and-justice", "public-sphere",
			},
			FallbackConnection: "Links to Phase 1 by documenting institution-facing political contestation.",
		},
		After: domain.PhaseCatalog{
			Groups: []domain.KeywordGroup{
				{
					Name: "body_politics",
					Probes: []string{
						"body politics", "yatra", "satyagraha", "march", "walk",
						"embodied", "theatre",
					},
					Connection: "Links to Phase 2 by foregrounding body politics, public theatre, and moral choreography.",
				},
				{
					Name: "moral_choreography",
					Probes: []string{
						"moral", "conscience", "ethics", "performance", "peace",
						"forgiveness",
					},
					Connection: "Links to Phase 2 by placing ethics, embodiment, and public repair at the core of new politics.",
				},
				{
					Name: "affective_publics",
					Probes: []string{
						"affect", "emotion", "solidarity", "care", "friendship",
						"listening", "hospitality",
					},
					Connection: "Links to Phase 2 by emphasizing affective, embodied forms of democratic action.",
				},
			},
			TagSignals: []string{
				"democracy", "ethics", "pluralism", "public-sphere",
				"civil-society",
			},
			FallbackConnection: "Links to Phase 2 by expanding politics into embodied public action.",
		},
		Weights: DefaultWeights(),
	}
}
