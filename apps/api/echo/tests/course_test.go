package tests

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/trezcool/darasa/core/course"
	"github.com/trezcool/darasa/tests"
)

func Test_courseApi_create(t *testing.T) {
	tch := testutil.CreateTeacher(t, idtRepo, "Jane", "Doe", "jane.crs@test.cd", "")
	body := marchallObj(t, map[string]string{
		"name":        "Algorithms",
		"course_code": "CS101",
		"teacher_id":  tch.ID,
	})

	req, rec := newRequest(http.MethodPost, "/course", body)
	app.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("code = %v, want %v; body %s", rec.Code, http.StatusCreated, rec.Body.String())
	}
	var resp struct {
		Success bool          `json:"success"`
		Data    course.Course `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshalling response: %v", err)
	}
	if !resp.Success || resp.Data.ID == "" || resp.Data.Code != "CS101" {
		t.Errorf("response = %+v", resp)
	}

	t.Run("duplicate code", func(t *testing.T) {
		tt := httpTest{
			method: http.MethodPost, path: "/course", body: body,
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"course_code": "Code already exists"}),
		}
		req, rec := newRequest(tt.method, tt.path, tt.body)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, tt, rec)
	})
}

func Test_courseApi_checkCode(t *testing.T) {
	tch := testutil.CreateTeacher(t, idtRepo, "Jane", "Doe", "jane.chk@test.cd", "")
	crs := testutil.CreateCourse(t, crsRepo, "Databases", "CS201", tch.ID)

	tests := []httpTest{
		{
			name: "known code", method: http.MethodPost, path: "/checkCourse",
			body:     marchallObj(t, map[string]string{"course_code": "CS201"}),
			wantCode: http.StatusOK,
			wantData: marchallObj(t, ok(crs)),
		},
		{
			name: "invalid code is soft", method: http.MethodPost, path: "/checkCourse",
			body:     marchallObj(t, map[string]string{"course_code": "NOPE42"}),
			wantCode: http.StatusOK,
			wantData: marchallObj(t, map[string]interface{}{"success": false, "data": "Invalid course code"}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(tt.method, tt.path, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_courseApi_enrollment(t *testing.T) {
	tch := testutil.CreateTeacher(t, idtRepo, "Jane", "Doe", "jane.enr@test.cd", "")
	std := testutil.CreateStudent(t, idtRepo, "John", "Smith", "john.enr@test.cd", "")
	crs := testutil.CreateCourse(t, crsRepo, "Networks", "CS301", tch.ID)

	enrollBody := marchallObj(t, map[string]string{"course_id": crs.ID, "student_id": std.ID})

	// enroll twice: the pair is not unique, both records count
	for i := 0; i < 2; i++ {
		req, rec := newRequest(http.MethodPost, "/enrollStudent", enrollBody)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("code = %v, want %v; body %s", rec.Code, http.StatusCreated, rec.Body.String())
		}
	}

	t.Run("student count", func(t *testing.T) {
		tt := httpTest{
			method: http.MethodGet, path: "/studentCount/" + crs.ID,
			wantCode: http.StatusOK,
			wantData: marchallObj(t, ok(map[string]int{"count": 2})),
		}
		req, rec := newRequest(tt.method, tt.path)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, tt, rec)
	})

	t.Run("search enrolled student", func(t *testing.T) {
		req, rec := newRequest(http.MethodGet, "/search/"+crs.ID+"/john/smith")
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("code = %v; body %s", rec.Code, rec.Body.String())
		}
		var resp struct {
			Data []json.RawMessage `json:"data"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("unmarshalling response: %v", err)
		}
		// both duplicate enrollments surface in the join
		if len(resp.Data) != 2 {
			t.Errorf("search returned %d students, want 2", len(resp.Data))
		}
	})

	t.Run("remove one record at a time", func(t *testing.T) {
		body := marchallObj(t, map[string]string{"course_id": crs.ID, "student_id": std.ID})
		for i := 0; i < 2; i++ {
			req, rec := newRequest(http.MethodPost, "/removeStudent", body)
			app.ServeHTTP(rec, req)
			if rec.Code != http.StatusOK {
				t.Fatalf("code = %v; body %s", rec.Code, rec.Body.String())
			}
		}

		// third removal finds nothing: soft failure
		tt := httpTest{
			method: http.MethodPost, path: "/removeStudent", body: body,
			wantCode: http.StatusOK,
			wantData: marchallObj(t, map[string]bool{"success": false}),
		}
		req, rec := newRequest(tt.method, tt.path, tt.body)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, tt, rec)
	})
}

func Test_courseApi_retrieve(t *testing.T) {
	tt := httpTest{
		name: "not found", method: http.MethodGet, path: "/course/ghost",
		wantCode: http.StatusNotFound,
		wantData: marchallObj(t, httpErr{Error: "course not found"}),
	}
	req, rec := newRequest(tt.method, tt.path)
	app.ServeHTTP(rec, req)
	checkCodeAndData(t, tt, rec)
}

func Test_courseApi_destroy(t *testing.T) {
	tch := testutil.CreateTeacher(t, idtRepo, "Jane", "Doe", "jane.del@test.cd", "")
	crs := testutil.CreateCourse(t, crsRepo, "Compilers", "CS401", tch.ID)

	tests := []httpTest{
		{
			name: "delete", method: http.MethodDelete, path: "/course/" + crs.ID,
			wantCode: http.StatusOK,
			wantData: marchallObj(t, ok(crs)),
		},
		{
			name: "delete twice is soft", method: http.MethodDelete, path: "/course/" + crs.ID,
			wantCode: http.StatusOK,
			wantData: marchallObj(t, map[string]bool{"success": false}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(tt.method, tt.path)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}
