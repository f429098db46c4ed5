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

package lexicon

import (
	"sync"

	"github.com/poiesic/herbalist/core"
)

// DefaultVersion identifies the built-in tables.
const DefaultVersion = "builtin-1"

var defaultStopwords = []string{
	"is", "the", "my", "i", "am", "have", "has", "had", "a", "an", "and", "or",
	"but", "in", "on", "at", "to", "for", "of", "with", "by", "from", "about",
	"into", "through", "during", "before", "after", "above", "below", "up", "down",
	"out", "off", "over", "under", "again", "further", "then", "once", "here",
	"there", "when", "where", "why", "how", "all", "any", "both", "each", "few",
	"more", "most", "other", "some", "such", "no", "nor", "not", "only", "own",
	"same", "so", "than", "too", "very", "can", "will", "just", "should", "now",
	// pronoun and contraction fragments left by splitting on apostrophes
	"it", "its", "s", "t", "m", "d", "ll", "re", "ve", "don", "doesn", "didn",
	"isn", "aren", "wasn", "won", "couldn", "shouldn", "wouldn", "haven",
}

var defaultSynonyms = []core.SynonymRule{
	{Phrase: "bp", Canonical: "hypertension"},
	{Phrase: "high bp", Canonical: "hypertension"},
	{Phrase: "blood pressure", Canonical: "hypertension"},
	{Phrase: "sugar", Canonical: "diabetes"},
	{Phrase: "blood sugar", Canonical: "diabetes"},
	{Phrase: "high sugar", Canonical: "diabetes"},
	{Phrase: "hair fall", Canonical: "hair loss"},
	{Phrase: "hair thinning", Canonical: "hair loss"},
	{Phrase: "tooth pain", Canonical: "toothache"},
	{Phrase: "dental pain", Canonical: "toothache"},
	{Phrase: "stomach pain", Canonical: "stomach problems"},
	{Phrase: "stomach ache", Canonical: "stomach problems"},
	{Phrase: "digestive issues", Canonical: "stomach problems"},
	{Phrase: "indigestion", Canonical: "stomach problems"},
	{Phrase: "joint pain", Canonical: "arthritis"},
	{Phrase: "joint inflammation", Canonical: "arthritis"},
	{Phrase: "breathing problems", Canonical: "asthma"},
	{Phrase: "respiratory issues", Canonical: "asthma"},
	{Phrase: "liver problems", Canonical: "jaundice"},
	{Phrase: "yellowish skin", Canonical: "jaundice"},
	{Phrase: "urinary infection", Canonical: "uti"},
	{Phrase: "bladder infection", Canonical: "uti"},
	{Phrase: "period pain", Canonical: "menstrual cramps"},
	{Phrase: "menstrual pain", Canonical: "menstrual cramps"},
	{Phrase: "monthly pain", Canonical: "menstrual cramps"},
	{Phrase: "cold", Canonical: "common cold"},
	{Phrase: "cough", Canonical: "common cold"},
	{Phrase: "fever", Canonical: "fever"},
	{Phrase: "high temperature", Canonical: "fever"},
	{Phrase: "headache", Canonical: "headache"},
	{Phrase: "migraine", Canonical: "headache"},
	{Phrase: "insomnia", Canonical: "sleep problems"},
	{Phrase: "sleeplessness", Canonical: "sleep problems"},
	{Phrase: "anxiety", Canonical: "anxiety"},
	{Phrase: "stress", Canonical: "anxiety"},
	{Phrase: "depression", Canonical: "depression"},
	{Phrase: "sadness", Canonical: "depression"},
}

var defaultStems = []core.StemRule{
	{Token: "suffering", Root: "suffer"},
	{Token: "having", Root: "have"},
	{Token: "feeling", Root: "feel"},
	{Token: "experiencing", Root: "experience"},
	{Token: "getting", Root: "get"},
	{Token: "looking", Root: "look"},
	{Token: "needing", Root: "need"},
	{Token: "wanting", Root: "want"},
	{Token: "trying", Root: "try"},
}

var defaultConditions = []string{
	// pipeline list
	"diabetes", "hypertension", "asthma", "arthritis", "jaundice", "uti",
	"menstrual cramps", "fever", "headache", "toothache", "hair loss",
	"stomach problems", "sleep problems", "anxiety", "depression", "common cold",
	// matcher keys not in the pipeline list
	"blood sugar", "glucose", "pain", "inflammation", "joint",
	"stomach", "digestive", "nausea", "bloating",
	"sleep", "insomnia", "stress",
	"blood pressure", "heart", "circulation",
	"immune", "cold", "flu",
	"skin", "wound", "burn",
	"elderly", "grandmother", "grandfather",
}

var defaultConditionBenefits = map[string][]string{
	"diabetes":    {"blood sugar control", "glucose regulation", "insulin support", "metabolic health"},
	"blood sugar": {"blood sugar control", "glucose regulation", "diabetes support"},
	"glucose":     {"glucose regulation", "blood sugar control", "insulin support"},

	"pain":         {"pain relief", "anti-inflammatory", "analgesic", "muscle pain"},
	"arthritis":    {"anti-inflammatory", "joint health", "pain relief", "mobility"},
	"inflammation": {"anti-inflammatory", "pain relief", "swelling reduction"},
	"joint":        {"joint health", "anti-inflammatory", "mobility", "arthritis"},

	"stomach":          {"digestive health", "stomach comfort", "nausea relief", "indigestion"},
	"stomach problems": {"digestive health", "stomach comfort", "nausea relief", "indigestion"},
	"digestive":        {"digestive health", "stomach comfort", "gut health", "bloating"},
	"nausea":           {"nausea relief", "stomach comfort", "digestive aid"},
	"bloating":         {"digestive health", "gas relief", "stomach comfort"},

	"sleep":          {"sleep aid", "relaxation", "insomnia", "calming"},
	"sleep problems": {"sleep aid", "relaxation", "insomnia", "calming"},
	"insomnia":       {"sleep aid", "relaxation", "calming", "nervous system"},
	"anxiety":        {"calming", "stress relief", "relaxation", "nervous system"},
	"stress":         {"stress relief", "calming", "adaptogenic", "relaxation"},

	"blood pressure": {"cardiovascular health", "circulation", "heart health", "hypertension"},
	"hypertension":   {"cardiovascular health", "circulation", "heart health", "hypertension"},
	"heart":          {"cardiovascular health", "heart health", "circulation"},
	"circulation":    {"circulation", "cardiovascular health", "blood flow"},

	"immune":      {"immune support", "immunity", "antioxidant", "immune boost"},
	"cold":        {"immune support", "respiratory health", "antiviral", "cold relief"},
	"common cold": {"immune support", "respiratory health", "antiviral", "cold relief"},
	"flu":         {"immune support", "antiviral", "fever reduction", "respiratory health"},

	"skin":  {"skin health", "topical healing", "wound healing", "skin conditions"},
	"wound": {"wound healing", "topical healing", "antiseptic", "skin repair"},
	"burn":  {"burns relief", "skin healing", "cooling", "topical healing"},

	"elderly":     {"circulation", "joint health", "immune support", "energy", "memory"},
	"grandmother": {"circulation", "joint health", "immune support", "energy"},
	"grandfather": {"circulation", "joint health", "immune support", "energy"},
}

// DefaultDefinition returns a fresh copy of the built-in tables.
func DefaultDefinition() Definition {
	def := Definition{
		Version:           DefaultVersion,
		Stopwords:         append([]string(nil), defaultStopwords...),
		Synonyms:          make(map[string]string, len(defaultSynonyms)),
		Stems:             make(map[string]string, len(defaultStems)),
		Conditions:        append([]string(nil), defaultConditions...),
		ConditionBenefits: make(map[string][]string, len(defaultConditionBenefits)),
	}
	for _, rule := range defaultSynonyms {
		def.Synonyms[rule.Phrase] = rule.Canonical
	}
	for _, rule := range defaultStems {
		def.Stems[rule.Token] = rule.Root
	}
	for condition, benefits := range defaultConditionBenefits {
		def.ConditionBenefits[condition] = append([]string(nil), benefits...)
	}
	return def
}

var builtin = sync.OnceValue(func() *Vocabulary {
	v, err := New(DefaultDefinition())
	if err != nil {
		panic("lexicon: built-in tables are invalid: " + err.Error())
	}
	return v
})

// Default returns the built-in vocabulary. The same instance is shared by
// every caller.
func Default() *Vocabulary {
	return builtin()
}
