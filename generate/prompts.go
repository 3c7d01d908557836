package generate

import "text/template"

// trainingBatches are the fixed category descriptions used to steer the
// generator toward a diverse training corpus. Each yields one JSON-mode call.
var trainingBatches = []string{
	"10 Cardiology cases (5 urgent like MI/STEMI, 5 chronic like CHF)",
	"10 Oncology cases (Colon, Breast, Lung - focus on early signs vs missed diagnosis)",
	"10 Neurology cases (Stroke, TIA, Multiple Sclerosis - subtle symptoms)",
	"10 Gastroenterology cases (IBD, Liver Disease, obscure GI bleeds)",
	"10 Pulmonary cases (PE, COPD, Pneumonia - include 'r/o PE' examples)",
	"10 Endocrinology cases (Thyroid, Diabetes complications, Adrenal)",
	"10 Infectious Disease cases (Sepsis, obscure fungal/viral, delayed recognition)",
	"10 Primary Care 'Vague' cases (Fatigue, Weight loss - difficult diagnosis)",
	"10 Emergency Medicine 'Missed' cases (Patient discharged who shouldn't have been)",
	"10 Pediatric/Geriatric mixed cases (Subtle presentation in vulnerable groups)",
}

const trainingPromptFormat = `You are creating training data for fine-tuning a clinical model to extract diagnostic hypotheses.
Generate **10 realistic clinical examples** for this specific category:
CATEGORY: %s

REQUIREMENTS:
1. **Input:** A realistic clinical note (Subjective, Objective, Assessment, Plan). Use abbreviations (Pt, yo, hx, c/o).
2. **Output:** A structured JSON object with hypothesis, differential, confidence, urgency, tests, and reasoning.
3. **Failure Mode:** Ensure 3 out of these 10 examples represent a POTENTIAL MISSED DIAGNOSIS (e.g., vague symptoms ignored, test not ordered).

OUTPUT FORMAT (JSON List):
[
  {
    "input": "45yo M c/o chest pain...",
    "output": {
      "primary_hypothesis": "...",
      "differential_diagnoses": ["..."],
      "confidence": "high/medium/low",
      "key_symptoms": ["..."],
      "urgency": "high/medium/low",
      "tests_ordered": ["..."],
      "reasoning": "..."
    }
  }
]
`

// PatientProfile seeds one synthetic patient scenario. The profiles encode
// the designed care gap ("open loop") each demo case is built around.
type PatientProfile struct {
	PID               string
	Age               int
	Sex               string
	Complaint         string
	PMH               string
	OrdersText        string
	CriticalPhrase    string
	ResultsText       string
	LoopStatusText    string
	Diagnosis         string
	PrimaryHypothesis string
	FailureMode       string
}

// patientProfiles are the ten fixed demo scenarios.
var patientProfiles = []PatientProfile{
	{
		PID: "P001", Age: 58, Sex: "F",
		Complaint:         "Fatigue and unintentional weight loss (12 lbs)",
		PMH:               "Hypertension, Type 2 diabetes, Family hx colon cancer",
		OrdersText:        "CBC, CMP, chest X-ray, colonoscopy referral",
		CriticalPhrase:    "r/o colon cancer",
		ResultsText:       "- CBC: Hgb 9.8 (Low), MCV 72 (Low). \n- CXR: Mild mediastinal lymphadenopathy 1.2cm (Incidental).",
		LoopStatusText:    "- CBC/CXR: Completed.\n- Colonoscopy: Referral sent but patient never scheduled (14 days pending).",
		Diagnosis:         "Stage II colon adenocarcinoma",
		PrimaryHypothesis: "Colon cancer",
		FailureMode:       "Colonoscopy never completed, X-ray lymphadenopathy overlooked",
	},
	{
		PID: "P002", Age: 72, Sex: "M",
		Complaint:         "Worsening cough and shortness of breath",
		PMH:               "COPD, CAD",
		OrdersText:        "CXR, CBC, Azithromycin",
		CriticalPhrase:    "r/o pneumonia vs COPD exacerbation",
		ResultsText:       "- CXR: RLL infiltrate consistent with pneumonia.",
		LoopStatusText:    "- CXR: Completed but result filed to Media tab (missed).\n- Patient treated for COPD only.",
		Diagnosis:         "Bacterial Pneumonia",
		PrimaryHypothesis: "Pneumonia",
		FailureMode:       "Positive pneumonia finding on X-ray not acknowledged by provider",
	},
	{
		PID: "P003", Age: 45, Sex: "F",
		Complaint:         "Neck lump noticed by hairdresser",
		PMH:               "None",
		OrdersText:        "TSH, Thyroid Ultrasound",
		CriticalPhrase:    "r/o thyroid malignancy",
		ResultsText:       "- TSH: Normal.",
		LoopStatusText:    "- Ultrasound: Pending >25 days. Insurance denied prior auth.",
		Diagnosis:         "Papillary Thyroid Cancer",
		PrimaryHypothesis: "Thyroid malignancy",
		FailureMode:       "Ultrasound delayed due to administrative insurance denial",
	},
	{
		PID: "P004", Age: 50, Sex: "F",
		Complaint: "SOB after flight", PMH: "DVT hx",
		OrdersText: "CT Angio", CriticalPhrase: "r/o PE",
		ResultsText: "None", LoopStatusText: "Patient left without being seen",
		Diagnosis: "Pulmonary Embolism", PrimaryHypothesis: "PE",
		FailureMode: "Patient left before scan",
	},
	{
		PID: "P005", Age: 80, Sex: "M",
		Complaint: "Confusion", PMH: "Dementia",
		OrdersText: "UA, Lactate", CriticalPhrase: "r/o sepsis",
		ResultsText: "Lactate 3.0", LoopStatusText: "Lactate ignored",
		Diagnosis: "Sepsis", PrimaryHypothesis: "Sepsis",
		FailureMode: "High lactate not acted upon",
	},
	{
		PID: "P006", Age: 60, Sex: "F",
		Complaint: "Screening", PMH: "None",
		OrdersText: "Mammogram", CriticalPhrase: "routine screening",
		ResultsText: "BIRADS 4", LoopStatusText: "Report unread",
		Diagnosis: "Breast Cancer", PrimaryHypothesis: "Breast Cancer",
		FailureMode: "BIRADS 4 finding missed",
	},
	{
		PID: "P007", Age: 55, Sex: "M",
		Complaint: "Chest pain", PMH: "HTN",
		OrdersText: "Troponin", CriticalPhrase: "r/o ACS",
		ResultsText: "Trop 0.04 -> 0.09", LoopStatusText: "Delta missed",
		Diagnosis: "NSTEMI", PrimaryHypothesis: "ACS",
		FailureMode: "Rising troponin ignored",
	},
	{
		PID: "P008", Age: 65, Sex: "M",
		Complaint: "Checkup", PMH: "DM2",
		OrdersText: "Creatinine", CriticalPhrase: "monitor kidney function",
		ResultsText: "Cr 1.9 (was 1.2)", LoopStatusText: "No referral",
		Diagnosis: "CKD Stage 3", PrimaryHypothesis: "CKD",
		FailureMode: "Worsening renal function ignored",
	},
	{
		PID: "P009", Age: 60, Sex: "M",
		Complaint: "Blurry vision", PMH: "DM2",
		OrdersText: "Ophtho referral", CriticalPhrase: "screen retinopathy",
		ResultsText: "None", LoopStatusText: "Referral pending 1yr",
		Diagnosis: "Proliferative Retinopathy", PrimaryHypothesis: "Retinopathy",
		FailureMode: "Referral never scheduled",
	},
	{
		PID: "P010", Age: 70, Sex: "F",
		Complaint: "UTI symptoms", PMH: "Afib on Warfarin",
		OrdersText: "Bactrim", CriticalPhrase: "r/o UTI",
		ResultsText: "None", LoopStatusText: "No INR check",
		Diagnosis: "Bleeding Risk", PrimaryHypothesis: "Drug Interaction",
		FailureMode: "Did not check INR while on Bactrim",
	},
}

var patientPromptTemplate = template.Must(template.New("patient").Parse(`
You are a medical data generator creating realistic synthetic patient cases for a healthcare AI demo. Generate a complete patient case in JSON format.

PATIENT PROFILE:
- {{.Age}}-year-old {{.Sex}}
- Chief complaint: {{.Complaint}}
- PMH: {{.PMH}}

CLINICAL WORKFLOW:
1. Initial PCP visit (2 weeks ago)
2. Orders placed: {{.OrdersText}}
3. Some results returned, but gaps exist

CLINICAL NOTE (from PCP visit):
Write a realistic clinical note that includes:
- Subjective: Patient's complaints
- Objective: Vital signs, exam findings
- Assessment: Physician's diagnostic reasoning
- Plan: Orders placed
- CRITICAL: Must include phrase "{{.CriticalPhrase}}"

RESULTS (1 week later):
{{.ResultsText}}

DIAGNOSTIC LOOP STATUS:
{{.LoopStatusText}}

GROUND TRUTH:
- Actual diagnosis: {{.Diagnosis}}
- The failure: {{.FailureMode}}

OUTPUT FORMAT:
Generate JSON with this exact structure:
{
  "patient_id": "{{.PID}}",
  "demographics": { "age": {{.Age}}, "sex": "{{.Sex}}", "mrn": "MRN-{{.PID}}99" },
  "visit_date": "2024-11-05",
  "clinical_note": {
    "date": "2024-11-05",
    "provider": "Dr. Martinez, Juan",
    "text": "[FULL CLINICAL NOTE TEXT HERE]"
  },
  "orders": [
    { "order_id": "ORD001", "test_name": "String", "status": "completed", "result_date": "2024-11-07" },
    { "order_id": "ORD004", "test_name": "String", "status": "pending", "days_pending": 14, "failure_reason": "String" }
  ],
  "results": [
    { "result_id": "RES001", "test_name": "String", "result_date": "2024-11-07", "interpretation": "String", "full_text": "String" }
  ],
  "diagnostic_hypothesis": {
    "primary": "{{.PrimaryHypothesis}}",
    "differential": ["String", "String"],
    "reasoning": "String"
  },
  "ground_truth_diagnosis": "{{.Diagnosis}}",
  "failure_mode": "{{.FailureMode}}",
  "ai_should_flag": ["String", "String"]
}
`))
