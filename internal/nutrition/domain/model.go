package domain

import "time"

// UploadEvent is one successful nutrition photo upload.
type UploadEvent struct {
	ID        string    `json:"nutrition_id,omitempty"`
	UserID    string    `json:"user_id"`
	ImgURL    string    `json:"img_url"`
	CreatedAt time.Time `json:"-"`
	// CreatedAtText is CreatedAt rendered in the fixed UTC+7 zone.
	CreatedAtText string `json:"created_at"`
}

// NewUploadEvent builds an event stamped at t.
func NewUploadEvent(id, userID, imgURL string, t time.Time) UploadEvent {
	return UploadEvent{
		ID:            id,
		UserID:        userID,
		ImgURL:        imgURL,
		CreatedAt:     t,
		CreatedAtText: FormatTimestamp(t),
	}
}

// HistoryPageSize is the number of upload events per history page.
const HistoryPageSize = 10

// Food is a read-only reference record from the food lookup table.
type Food struct {
	ID            string `json:"id" firestore:"id"`
	Name          string `json:"name" firestore:"name"`
	Calories      int    `json:"calories" firestore:"calories"`
	CaloriesFor2x int    `json:"calories_for_2x" firestore:"calories_for_2x"`
	CaloriesFor3x int    `json:"calories_for_3x" firestore:"calories_for_3x"`
	CaloriesFor4x int    `json:"calories_for_4x" firestore:"calories_for_4x"`
	Protein       int    `json:"protein" firestore:"protein"`
	Fat           int    `json:"fat" firestore:"lemak"`
	Carbohydrate  int    `json:"carbohydrate" firestore:"karbohidrat"`
	Vitamin       int    `json:"vitamin" firestore:"vitamin"`
	Mineral       int    `json:"mineral" firestore:"mineral"`
}

// CaloriesForMeals picks the calorie value for a meals-per-day count.
// Anything other than 2 or 3 uses the 4-meal bucket.
func (f *Food) CaloriesForMeals(eatPerDay int) int {
	switch eatPerDay {
	case 2:
		return f.CaloriesFor2x
	case 3:
		return f.CaloriesFor3x
	default:
		return f.CaloriesFor4x
	}
}

// foodAliases maps labels that differ from the stored document name.
var foodAliases = map[string]string{
	"lontong": "Lontong",
}

// NormalizeFoodName applies the known alias before a lookup.
func NormalizeFoodName(name string) string {
	if canonical, ok := foodAliases[name]; ok {
		return canonical
	}
	return name
}

// Prediction is the ML service output for one photo.
type Prediction struct {
	Label        string   `json:"final_result"`
	OtherOptions []string `json:"other_options"`
}

// FoodPrediction is the predicted food scaled to the caller's meal count.
type FoodPrediction struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Calories     int      `json:"calories"`
	Protein      int      `json:"protein"`
	Fat          int      `json:"fat"`
	Carbohydrate int      `json:"carbohydrate"`
	Vitamin      int      `json:"vitamin"`
	Mineral      int      `json:"mineral"`
	EatPerDay    int      `json:"eat_per_day"`
	OtherOptions []string `json:"other_options"`
}

// Scale builds the prediction response for a meal count.
func (f *Food) Scale(eatPerDay int, otherOptions []string) FoodPrediction {
	if otherOptions == nil {
		otherOptions = []string{}
	}
	return FoodPrediction{
		ID:           f.ID,
		Name:         f.Name,
		Calories:     f.CaloriesForMeals(eatPerDay),
		Protein:      f.Protein,
		Fat:          f.Fat,
		Carbohydrate: f.Carbohydrate,
		Vitamin:      f.Vitamin,
		Mineral:      f.Mineral,
		EatPerDay:    eatPerDay,
		OtherOptions: otherOptions,
	}
}

// Recommendation statuses.
const (
	RecommendationGenerating = "generating"
	RecommendationReady      = "ready"
)

// FoodRef is a short food reference in a recommendation.
type FoodRef struct {
	ID   string `json:"id" firestore:"id"`
	Name string `json:"name" firestore:"name"`
}

// Recommendation is the per-user recommendation state written by the ML pipeline.
type Recommendation struct {
	UserID string              `json:"-" firestore:"user_id"`
	Status string              `json:"-" firestore:"status"`
	Top15  []FoodRef           `json:"top15" firestore:"top15"`
	Recom  []map[string]string `json:"recom" firestore:"recom"`
}
