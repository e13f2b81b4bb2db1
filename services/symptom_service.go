package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"sort"
	"strings"
)

type SymptomService struct {
	ai *GeminiClient
}

func NewSymptomService(ai *GeminiClient) *SymptomService {
	return &SymptomService{ai: ai}
}

var ErrNoSymptoms = errors.New("please provide at least one symptom")

type symptomInfo struct {
	conditions []string
	severity   string // low | medium | high
}

// Compiled-in triage table: symptom → likely conditions and a coarse severity.
var symptomTable = map[string]symptomInfo{
	"fever":               {[]string{"Common Cold", "Flu", "COVID-19", "Dengue", "Malaria"}, "medium"},
	"cough":               {[]string{"Common Cold", "Flu", "COVID-19", "Bronchitis", "Asthma"}, "medium"},
	"headache":            {[]string{"Migraine", "Tension Headache", "Flu", "Dehydration", "Sinusitis"}, "low"},
	"fatigue":             {[]string{"Anemia", "Thyroid Issues", "Depression", "Sleep Apnea", "Chronic Fatigue Syndrome"}, "medium"},
	"sore throat":         {[]string{"Common Cold", "Flu", "Strep Throat", "Tonsillitis"}, "low"},
	"body ache":           {[]string{"Flu", "Viral Infection", "Fibromyalgia", "Overexertion"}, "low"},
	"nausea":              {[]string{"Food Poisoning", "Gastroenteritis", "Migraine", "Motion Sickness"}, "medium"},
	"diarrhea":            {[]string{"Food Poisoning", "Gastroenteritis", "IBS", "Lactose Intolerance"}, "medium"},
	"chest pain":          {[]string{"Heart Attack", "Angina", "Panic Attack", "Acid Reflux"}, "high"},
	"shortness of breath": {[]string{"Asthma", "Pneumonia", "Heart Disease", "Anxiety"}, "high"},
	"dizziness":           {[]string{"Vertigo", "Low Blood Pressure", "Dehydration", "Inner Ear Problem"}, "medium"},
	"abdominal pain":      {[]string{"Gastritis", "Appendicitis", "IBS", "Food Poisoning"}, "medium"},
	"rash":                {[]string{"Allergic Reaction", "Eczema", "Psoriasis", "Contact Dermatitis"}, "low"},
	"joint pain":          {[]string{"Arthritis", "Gout", "Lupus", "Injury"}, "medium"},
	"vomiting":            {[]string{"Food Poisoning", "Gastroenteritis", "Migraine", "Pregnancy"}, "medium"},
	"runny nose":          {[]string{"Common Cold", "Allergies", "Sinusitis", "Flu"}, "low"},
	"sneezing":            {[]string{"Allergies", "Common Cold", "Sinusitis"}, "low"},
	"chills":              {[]string{"Flu", "Malaria", "Pneumonia", "Sepsis"}, "medium"},
	"night sweats":        {[]string{"Menopause", "Tuberculosis", "Lymphoma", "Hyperthyroidism"}, "medium"},
	"weight loss":         {[]string{"Diabetes", "Hyperthyroidism", "Cancer", "Depression"}, "high"},
}

type ConditionMatch struct {
	Name       string `json:"name"`
	MatchCount int    `json:"matchCount"`
	Confidence int    `json:"confidence"` // 0..100
}

type SymptomAnalysis struct {
	Symptoms          []string         `json:"symptoms"`
	PossibleConditions []ConditionMatch `json:"possibleConditions"`
	Severity          string           `json:"severity"`
	Advice            string           `json:"advice"`
	Disclaimer        string           `json:"disclaimer"`
}

const symptomDisclaimer = "This is not a medical diagnosis. Consult a healthcare professional for any concerning or persistent symptoms."

// Analyze matches the supplied symptoms against the triage table and asks the
// generative upstream for narrative advice, falling back to rule-based advice
// on any failure.
func (s *SymptomService) Analyze(ctx context.Context, symptoms []string) (*SymptomAnalysis, error) {
	if len(symptoms) == 0 {
		return nil, ErrNoSymptoms
	}

	normalized := make([]string, 0, len(symptoms))
	for _, sym := range symptoms {
		if v := strings.ToLower(strings.TrimSpace(sym)); v != "" {
			normalized = append(normalized, v)
		}
	}
	if len(normalized) == 0 {
		return nil, ErrNoSymptoms
	}

	counts := map[string]int{}
	severity := "low"
	for _, sym := range normalized {
		info, ok := symptomTable[sym]
		if !ok {
			continue
		}
		for _, cond := range info.conditions {
			counts[cond]++
		}
		if info.severity == "high" {
			severity = "high"
		} else if info.severity == "medium" && severity != "high" {
			severity = "medium"
		}
	}

	matches := make([]ConditionMatch, 0, len(counts))
	for cond, n := range counts {
		confidence := int(math.Min(float64(n)/float64(len(normalized))*100, 100))
		matches = append(matches, ConditionMatch{Name: cond, MatchCount: n, Confidence: confidence})
	}
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].MatchCount != matches[j].MatchCount {
			return matches[i].MatchCount > matches[j].MatchCount
		}
		return matches[i].Name < matches[j].Name
	})
	if len(matches) > 5 {
		matches = matches[:5]
	}

	out := &SymptomAnalysis{
		Symptoms:           normalized,
		PossibleConditions: matches,
		Severity:           severity,
		Advice:             ruleBasedAdvice(severity),
		Disclaimer:         symptomDisclaimer,
	}

	if s.ai.Available() {
		prompt := fmt.Sprintf(
			"You are a careful medical triage assistant. The user reports these symptoms: %s. "+
				"Overall severity was screened as %q. Give 2-3 short paragraphs of empathetic, practical guidance: "+
				"likely benign explanations, self-care steps, and clear red flags that warrant seeing a doctor. "+
				"Do not diagnose. Plain text only.",
			strings.Join(normalized, ", "), severity)

		if text, err := s.ai.GenerateText(ctx, prompt, 600); err != nil {
			log.Printf("symptom upstream error: %v", err)
		} else if text != "" {
			out.Advice = text
		}
	}

	return out, nil
}

func ruleBasedAdvice(severity string) string {
	switch severity {
	case "high":
		return "One or more of your symptoms can indicate a serious condition. Please seek medical attention promptly, especially if symptoms are sudden, severe, or worsening."
	case "medium":
		return "Your symptoms are worth monitoring. Rest, stay hydrated, and see a doctor if they persist beyond a few days or get worse."
	default:
		return "Your symptoms are usually mild and self-limiting. Rest, fluids, and over-the-counter remedies typically help; see a doctor if anything lingers."
	}
}
