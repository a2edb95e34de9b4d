package tests

import (
	"bytes"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/trezcool/darasa/core/submission"
	"github.com/trezcool/darasa/tests"
)

func Test_submissionApi_flow(t *testing.T) {
	std := testutil.CreateStudent(t, idtRepo, "John", "Smith", "john.sub@test.cd", "")
	asg := testutil.CreateAssignment(t, asgRepo, "crs-sub", "Homework 1")

	t.Run("not submitted yet", func(t *testing.T) {
		tt := httpTest{
			method: http.MethodGet, path: "/hasSubmitted/" + asg.ID + "/" + std.ID,
			wantCode: http.StatusOK,
			wantData: marchallObj(t, map[string]bool{"success": false}),
		}
		req, rec := newRequest(tt.method, tt.path)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, tt, rec)
	})

	t.Run("grading before submission is 404", func(t *testing.T) {
		tt := httpTest{
			method: http.MethodPost, path: "/submission/grade/" + asg.ID + "/" + std.ID,
			body:     marchallObj(t, map[string]int{"marks": 85}),
			wantCode: http.StatusNotFound,
			wantData: marchallObj(t, httpErr{Error: "submission not found"}),
		}
		req, rec := newRequest(tt.method, tt.path, tt.body)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, tt, rec)
	})

	var subID string
	t.Run("submit", func(t *testing.T) {
		req, rec := newRequest(http.MethodPost, "/submission", marchallObj(t, map[string]string{
			"assignment_id": asg.ID,
			"student_id":    std.ID,
		}))
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("code = %v; body %s", rec.Code, rec.Body.String())
		}
		var resp struct {
			Data submission.Submission `json:"data"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("unmarshalling response: %v", err)
		}
		subID = resp.Data.ID
	})

	answer := []byte("%PDF-1.4 answers")

	t.Run("attach answer", func(t *testing.T) {
		req, rec := newUploadRequest(t, "/submission/attachment/"+subID, "answers.pdf", answer)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("code = %v; body %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("download by pair", func(t *testing.T) {
		req, rec := newRequest(http.MethodGet, "/submission/getAttachment/"+asg.ID+"/"+std.ID)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("code = %v; body %s", rec.Code, rec.Body.String())
		}
		if ct := rec.Header().Get("Content-Type"); ct != "application/pdf" {
			t.Errorf("Content-Type = %q, want application/pdf", ct)
		}
		if !bytes.Equal(rec.Body.Bytes(), answer) {
			t.Errorf("body = %q, want %q", rec.Body.Bytes(), answer)
		}
	})

	t.Run("has submitted", func(t *testing.T) {
		tt := httpTest{
			method: http.MethodGet, path: "/hasSubmitted/" + asg.ID + "/" + std.ID,
			wantCode: http.StatusOK,
			wantData: marchallObj(t, map[string]bool{"success": true}),
		}
		req, rec := newRequest(tt.method, tt.path)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, tt, rec)
	})

	t.Run("grade", func(t *testing.T) {
		tt := httpTest{
			method: http.MethodPost, path: "/submission/grade/" + asg.ID + "/" + std.ID,
			body:     marchallObj(t, map[string]int{"marks": 85}),
			wantCode: http.StatusOK,
			wantData: marchallObj(t, map[string]bool{"success": true}),
		}
		req, rec := newRequest(tt.method, tt.path, tt.body)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, tt, rec)
	})

	t.Run("gradebook", func(t *testing.T) {
		tt := httpTest{
			method: http.MethodGet, path: "/marks/" + asg.ID,
			wantCode: http.StatusOK,
			wantData: marchallObj(t, map[string]interface{}{
				"success": true,
				"submitted": []map[string]interface{}{{
					"student_id":     std.ID,
					"first_name":     "John",
					"last_name":      "Smith",
					"marks_obtained": 85,
				}},
			}),
		}
		req, rec := newRequest(tt.method, tt.path)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, tt, rec)
	})
}
