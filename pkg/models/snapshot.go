// Package models defines the row shapes the engine reads and produces.
package models

// CampaignSnapshot is one campaign's performance at a point in time, as
// handed to the engine by the upstream loader. Inputs are read-only: the
// engine never mutates a CampaignSnapshot, only appends derived fields to
// the EnrichedCampaignSnapshot it builds from one.
type CampaignSnapshot struct {
	// Identity
	CampaignID      string `json:"campaign_id"`
	AdvertiserName  string `json:"advertiser_name"`
	PartnerName     string `json:"partner_name"`
	BusinessCategory string `json:"business_category"`

	// Financial
	CampaignBudget float64 `json:"campaign_budget"`
	AmountSpent    float64 `json:"amount_spent"`

	// Cycle
	IOCycle         int      `json:"io_cycle"`                  // 1-indexed billing cycle
	AvgCycleLength  float64  `json:"avg_cycle_length"`          // days; 0 means "use default" (30.4)
	DaysElapsed     float64  `json:"days_elapsed"`
	TrueDaysRunning *float64 `json:"true_days_running,omitempty"`

	// Performance
	RunningCIDLeads  int      `json:"running_cid_leads"`
	RunningCIDCPL    float64  `json:"running_cid_cpl"`
	Utilization      float64  `json:"utilization"` // fraction or percent encoding; sanitized in preprocessing
	LeadsRolling30D  *int     `json:"leads_rolling_30d,omitempty"`

	// Goal
	CPLGoal *float64 `json:"cpl_goal,omitempty"`

	// Benchmark
	BSCCPLAvg          float64  `json:"bsc_cpl_avg"` // vertical median
	BSCCPLTop25Pct     *float64 `json:"bsc_cpl_top_25pct,omitempty"`
	BSCCPLBottom25Pct  *float64 `json:"bsc_cpl_bottom_25pct,omitempty"`
	BSCCPCAverage      float64  `json:"bsc_cpc_average"`

	// Structure
	AdvertiserProductCount int `json:"advertiser_product_count"`
}

// RiskDriver is one SHAP-style per-factor percentage-point attribution.
type RiskDriver struct {
	Name           string  `json:"name"`
	Points         float64 `json:"points"`
	IsControllable bool    `json:"is_controllable"`
	Explanation    string  `json:"explanation"`
	LiftX          float64 `json:"lift_x"`
}

// RiskDrivers is the structured decomposition of churn_prob_90d_unclamped.
type RiskDrivers struct {
	Baseline       float64      `json:"baseline"` // percentage points
	Drivers        []RiskDriver `json:"drivers"`
	PUnclampedPct  float64      `json:"p_unclamped_pct"`
	PClampedPct    float64      `json:"p_clamped_pct"`
	IsSafe         bool         `json:"is_safe"`
	SafeClamped    bool         `json:"safe_clamped"`
	ModelVersion   string       `json:"model_version"`
	ConstantsUsed  map[string]float64 `json:"constants_used"`
}

// GoalAdvice is the UI-facing advisory about CPL goal realism.
type GoalAdvice struct {
	Show               bool     `json:"show"`
	Status             string   `json:"status"` // missing, too_low, ambitious, reasonable, too_high, wildly_high
	GoalAdvertiser     *float64 `json:"goal_advertiser,omitempty"`
	GoalEffective      *float64 `json:"goal_effective,omitempty"`
	GoalWasSubstituted bool     `json:"goal_was_substituted"`
	BenchmarkP25       float64  `json:"benchmark_p25"`
	BenchmarkP50       float64  `json:"benchmark_p50"`
	BenchmarkP75       float64  `json:"benchmark_p75"`
	RecommendedPoint   float64  `json:"recommended_point"`
	RecommendedMin     float64  `json:"recommended_min"`
	RecommendedMax     float64  `json:"recommended_max"`
	PerfVsGoal         string   `json:"perf_vs_goal"`
	PerfVsRecommended  string   `json:"perf_vs_recommended"`
	Rationale          string   `json:"rationale"`
}

// DiagnosisPill is one short UI tag.
type DiagnosisPill struct {
	Text string `json:"text"`
	Type string `json:"type"` // success, warning, critical, neutral
}

// WaterfallDriver is one signed bar in the churn waterfall.
type WaterfallDriver struct {
	Label string  `json:"label"`
	PP    int     `json:"pp"`
	Type  string  `json:"type"` // controllable, structural, protective
	LiftX float64 `json:"lift_x"`
	Why   string  `json:"why"`
}

// WaterfallRecord is the visualization-ready shape of one row's churn decomposition.
type WaterfallRecord struct {
	TotalPct            int               `json:"total_pct"`
	MathTotalUnclamped  int               `json:"math_total_unclamped"`
	BaselinePP          int               `json:"baseline_pp"`
	Drivers             []WaterfallDriver `json:"drivers"`
	Note                string            `json:"note,omitempty"`
}

// EnrichedCampaignSnapshot is a CampaignSnapshot plus every field the engine derives.
type EnrichedCampaignSnapshot struct {
	CampaignSnapshot

	// Goal Processor
	EffectiveCPLGoal   float64 `json:"effective_cpl_goal"`
	RiskCPLGoal        float64 `json:"risk_cpl_goal"`
	GoalQuality        string  `json:"goal_quality"` // missing, too_low, reasonable, too_high
	GoalWasSubstituted bool    `json:"goal_was_substituted"`
	CPLDelta           float64 `json:"cpl_delta"`
	CPLVariancePct     float64 `json:"cpl_variance_pct"`
	IsCPLGoalMissing   bool    `json:"is_cpl_goal_missing"`
	PrimaryIssue       string  `json:"primary_issue"`

	// Expected-Leads Calculator
	ExpectedLeadsMonthly      float64 `json:"expected_leads_monthly"`
	ExpectedLeadsToDate       float64 `json:"expected_leads_to_date"`
	ExpectedLeadsToDateSpend  float64 `json:"expected_leads_to_date_spend"`
	IdealSpendToDate          float64 `json:"-"`

	// SEM-Viability Gate
	SEMViable    bool `json:"_sem_viable"`
	ViabBudgetOK bool `json:"_viab_budget_ok"`
	ViabClicksOK bool `json:"_viab_clicks_ok"`
	ViabVolumeOK bool `json:"_viab_volume_ok"`

	// Zero-Lead Classifier
	ZeroLeadEmerging bool `json:"zero_lead_emerging"`
	ZeroLeadLastMo   bool `json:"zero_lead_last_mo"`
	ZeroLeadIdle     bool `json:"zero_lead_idle"`

	// SAFE Detector
	IsSafe bool `json:"is_safe"`

	// Churn Calculator
	TenureBucket             string      `json:"tenure_bucket"`
	ChurnProb90d             float64     `json:"churn_prob_90d"`
	ChurnProb90dUnclamped    float64     `json:"churn_prob_90d_unclamped"`
	ChurnRiskBand            string      `json:"churn_risk_band"` // LOW, MEDIUM, HIGH, CRITICAL
	RevenueAtRisk            float64     `json:"revenue_at_risk"`
	RiskDriversJSON          RiskDrivers `json:"risk_drivers_json"`
	BenchmarkFallbackUsed    bool        `json:"benchmark_fallback_used"`

	// Priority / FLARE Scorer
	ControllableDriverShare float64 `json:"controllable_driver_share"`
	FlareScore              float64 `json:"flare_score"`
	PriorityIndex           float64 `json:"priority_index"`
	PriorityTier            string  `json:"priority_tier"` // P1 - CRITICAL, P2 - HIGH, P3 - MEDIUM, P4 - LOW

	// Diagnostic Generator
	HeadlineDiagnosis string          `json:"headline_diagnosis"`
	HeadlineSeverity  string          `json:"headline_severity"` // healthy, neutral, warning, critical
	DiagnosisPills    []DiagnosisPill `json:"diagnosis_pills"`
	GoalAdviceJSON    GoalAdvice      `json:"goal_advice_json"`

	// Waterfall Builder
	Waterfall *WaterfallRecord `json:"waterfall,omitempty"`
}

// BenchmarkRecord is one vertical/category's reference metrics, as returned
// by a BenchmarkLookup. Fields mirror CampaignSnapshot's Benchmark group.
type BenchmarkRecord struct {
	Category       string  `json:"category" yaml:"category"`
	Subcategory    string  `json:"subcategory" yaml:"subcategory"`
	CPLMedian      float64 `json:"cpl_median" yaml:"cpl_median"`
	CPLTop25Pct    float64 `json:"cpl_top_25pct" yaml:"cpl_top_25pct"`
	CPLBottom25Pct float64 `json:"cpl_bottom_25pct" yaml:"cpl_bottom_25pct"`
	CPCAverage     float64 `json:"cpc_average" yaml:"cpc_average"`
	CTRAverage     float64 `json:"ctr_average" yaml:"ctr_average"`
	BudgetMedian   float64 `json:"budget_median" yaml:"budget_median"`
}

// BookSummary aggregates tier counts and revenue-at-risk across a scored book.
type BookSummary struct {
	TotalRows          int            `json:"total_rows"`
	TierCounts         map[string]int `json:"tier_counts"`
	CriticalCount      int            `json:"critical_severity_count"`
	TotalRevenueAtRisk float64        `json:"total_revenue_at_risk"`
	AvgRevenueAtRisk   float64        `json:"avg_revenue_at_risk"`
}
