package tests

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"testing"

	"github.com/aeroprep/aeroprep/core/question"
	"github.com/aeroprep/aeroprep/core/user"
)

func Test_questionApi_practice(t *testing.T) {
	app := setup(t)

	student := createUser(t, "Hero", "hero", "user3@test.aero", "", []string{user.RoleStudent}, true)
	studentToken := getToken(t, student)

	path := func(category, aircraft string, count int) string {
		v := make(url.Values)
		if category != "" {
			v.Add("category", category)
		}
		if aircraft != "" {
			v.Add("aircraft", aircraft)
		}
		if count > 0 {
			v.Add("question_count", strconv.Itoa(count))
		}
		return "/v1/questions/practice?" + v.Encode()
	}

	type extraTest struct {
		wantLen  int
		aircraft string
	}
	tests := []httpTest{
		{name: "Auth required", path: path("all", "", 5), wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "question_count required", path: path("all", "", 0), token: studentToken, wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"question_count": "this field is required"}),
		},
		{
			name: "question_count max", path: path("all", "", 101), token: studentToken, wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"question_count": "question_count must be 100 or less"}),
		},
		{name: "all categories", path: path("all", "", 5), token: studentToken, wantCode: http.StatusOK, extra: extraTest{wantLen: 5}},
		{
			name: "aircraft filter", path: path("all", question.AircraftA320Family, 50), token: studentToken, wantCode: http.StatusOK,
			extra: extraTest{aircraft: question.AircraftA320Family},
		},
		{
			name: "bilingual category label", path: path("Sistema Eléctrico", "", 50), token: studentToken, wantCode: http.StatusOK,
			extra: extraTest{},
		},
	}
	for _, tt := range tests {
		tt.method = http.MethodGet

		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			app.ServeHTTP(rec, req)

			if extra, ok := tt.extra.(extraTest); ok {
				if rec.Code != tt.wantCode {
					t.Fatalf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
				}
				var questions []question.Question
				if err := json.Unmarshal(rec.Body.Bytes(), &questions); err != nil {
					t.Fatalf("json.Unmarshal() failed! err %v", err)
				}
				if extra.wantLen > 0 && len(questions) != extra.wantLen {
					t.Errorf("failed! len = %d; want %d", len(questions), extra.wantLen)
				}
				if len(questions) == 0 {
					t.Error("failed! no questions returned")
				}
				if extra.aircraft != "" {
					for _, q := range questions {
						if q.Aircraft != extra.aircraft && q.Aircraft != question.AircraftGeneral {
							t.Errorf("failed! aircraft = %s; want %s or %s", q.Aircraft, extra.aircraft, question.AircraftGeneral)
						}
					}
				}
				return
			}
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_questionApi_categories(t *testing.T) {
	app := setup(t)

	student := createUser(t, "Hero", "hero", "user3@test.aero", "", []string{user.RoleStudent}, true)

	tests := []httpTest{
		{name: "Auth required", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{name: "Get all", token: getToken(t, student), wantCode: http.StatusOK, wantData: marchallObj(t, question.CategoryTags())},
	}
	for _, tt := range tests {
		tt.method = http.MethodGet
		tt.path = "/v1/questions/categories"

		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_questionApi_search(t *testing.T) {
	app := setup(t)

	student := createUser(t, "Hero", "hero", "user3@test.aero", "", []string{user.RoleStudent}, true)
	studentToken := getToken(t, student)
	empty := marchallList(t, []interface{}{}...)

	tests := []httpTest{
		{name: "Auth required", path: "/v1/questions/search?q=lol", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "q required", path: "/v1/questions/search", token: studentToken, wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"q": "this field is required"}),
		},
		{name: "no match", path: "/v1/questions/search?q=zzqqxxwyy", token: studentToken, wantCode: http.StatusOK, wantData: empty},
		{name: "match", path: "/v1/questions/search?q=hydraulic", token: studentToken, wantCode: http.StatusOK, extra: true},
	}
	for _, tt := range tests {
		tt.method = http.MethodGet

		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			app.ServeHTTP(rec, req)

			if tt.extra != nil {
				if rec.Code != tt.wantCode {
					t.Fatalf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
				}
				var questions []question.Question
				if err := json.Unmarshal(rec.Body.Bytes(), &questions); err != nil {
					t.Fatalf("json.Unmarshal() failed! err %v", err)
				}
				if len(questions) == 0 {
					t.Error("failed! no questions matched")
				}
				return
			}
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_questionApi_authoring(t *testing.T) {
	app := setup(t)

	student := createUser(t, "Hero", "hero", "user3@test.aero", "", []string{user.RoleStudent}, true)
	instructor := createUser(t, "Instructor", "instr1", "instr@test.aero", "", []string{user.RoleInstructor}, true)
	instructorToken := getToken(t, instructor)

	newQuestion := question.NewQuestion{
		Text:          "What is the maximum operating altitude?",
		Options:       []string{"35,000 ft", "37,000 ft", "39,800 ft", "41,000 ft"},
		CorrectAnswer: 2,
		Aircraft:      question.AircraftA320Family,
		Category:      "Limitations",
		Difficulty:    question.DifficultyBasic,
	}

	tests := []httpTest{
		{name: "Auth required", method: http.MethodGet, path: "/v1/questions", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "Staff required", method: http.MethodGet, path: "/v1/questions", token: getToken(t, student),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, errPermDenied),
		},
		{
			name: "Empty bank", method: http.MethodGet, path: "/v1/questions", token: instructorToken,
			wantCode: http.StatusOK, wantData: marchallList(t, []interface{}{}...),
		},
		{
			name: "Create: missing options", method: http.MethodPost, path: "/v1/questions", token: instructorToken,
			body:     marchallObj(t, question.NewQuestion{Text: "lol", Aircraft: question.AircraftGeneral, Category: "General", Difficulty: question.DifficultyBasic}),
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, map[string]string{"options": "this field is required"}),
		},
		{name: "Create", method: http.MethodPost, path: "/v1/questions", token: instructorToken, body: marchallObj(t, newQuestion), wantCode: http.StatusCreated, extra: true},
		{name: "Retrieve: unknown ID", method: http.MethodGet, path: "/v1/questions/lol", token: instructorToken, wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "not found"})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			app.ServeHTTP(rec, req)

			if tt.extra != nil {
				if rec.Code != tt.wantCode {
					t.Fatalf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
				}
				var q question.Question
				if err := json.Unmarshal(rec.Body.Bytes(), &q); err != nil {
					t.Fatalf("json.Unmarshal() failed! err %v", err)
				}
				if q.ID == "" {
					t.Error("failed! created question has no ID")
				}
				if q.Text != newQuestion.Text {
					t.Errorf("failed! text = %s; want %s", q.Text, newQuestion.Text)
				}
				if !q.IsActive {
					t.Error("failed! created question is not active")
				}
				return
			}
			checkCodeAndData(t, tt, rec)
		})
	}
}
