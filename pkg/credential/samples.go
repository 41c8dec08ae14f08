// Copyright 2026 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package credential

// Samples returns the demonstration records a fresh registry can be seeded with.
func Samples() []Record {
	return []Record{
		{
			ID:             "1",
			Surname:        "KOUASSI",
			GivenName:      "Jean-Baptiste",
			BirthDate:      "1998-05-15",
			CredentialType: "Licence en Informatique",
			Institution:    "Université Félix Houphouët-Boigny",
			AwardYear:      "2022",
			Reference:      "UFHB-2022-INF-001",
		},
		{
			ID:             "2",
			Surname:        "TRAORE",
			GivenName:      "Aminata",
			BirthDate:      "1999-08-22",
			CredentialType: "Master en Économie",
			Institution:    "Université Alassane Ouattara",
			AwardYear:      "2023",
			Reference:      "UAO-2023-ECO-042",
		},
		{
			ID:             "3",
			Surname:        "KONE",
			GivenName:      "Moussa",
			BirthDate:      "1997-03-10",
			CredentialType: "BTS Comptabilité",
			Institution:    "ESCAE Abidjan",
			AwardYear:      "2021",
			Reference:      "ESCAE-2021-CPT-115",
		},
		{
			ID:             "4",
			Surname:        "BAMBA",
			GivenName:      "Fatou",
			BirthDate:      "2000-11-28",
			CredentialType: "BAC Série D",
			Institution:    "Lycée Classique Abidjan",
			AwardYear:      "2020",
			Reference:      "LCA-2020-BAC-789",
		},
	}
}
