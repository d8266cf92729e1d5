package data

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/target/doctrack-api/internal/data/database"
	"github.com/target/doctrack-api/internal/domain/model"
	apperrors "github.com/target/doctrack-api/internal/errors"
	"github.com/target/doctrack-api/internal/testutil"
)

func TestUserRepo_GetByEmail(t *testing.T) {
	testutil.WithTestDB(t, func(tdb *testutil.TestDB) {
		ctx := context.Background()
		repo := NewUserRepo(tdb.DB, tdb.Dialect)

		email := testutil.UniqueEmail("ada")
		id := tdb.InsertUser(t, "Ada", email, "hunter2", 3)

		u, err := repo.GetByEmail(ctx, email)
		require.NoError(t, err)
		assert.Equal(t, id, u.ID)
		assert.Equal(t, "Ada", u.Name)
		assert.Equal(t, "hunter2", u.Password)
		assert.Equal(t, 3, u.Level)

		_, err = repo.GetByEmail(ctx, "nobody@example.com")
		require.Error(t, err)
		assert.True(t, apperrors.IsNotFound(err))
	})
}

func TestUserRepo_GetByEmail_DuplicateEmailPicksLowestID(t *testing.T) {
	testutil.WithTestDB(t, func(tdb *testutil.TestDB) {
		email := testutil.UniqueEmail("dup")
		first := tdb.InsertUser(t, "First", email, "a", 1)
		tdb.InsertUser(t, "Second", email, "b", 1)

		u, err := NewUserRepo(tdb.DB, tdb.Dialect).GetByEmail(context.Background(), email)
		require.NoError(t, err)
		assert.Equal(t, first, u.ID)
	})
}

func TestJobRepo_ListAndListByUser(t *testing.T) {
	testutil.WithTestDB(t, func(tdb *testutil.TestDB) {
		ctx := context.Background()
		repo := NewJobRepo(tdb.DB, tdb.Dialect)

		jobs, err := repo.List(ctx)
		require.NoError(t, err)
		assert.NotNil(t, jobs)
		assert.Empty(t, jobs)

		audit := tdb.InsertJob(t, "Audit", "Quarterly audit")
		review := tdb.InsertJob(t, "Review", "Contract review")
		tdb.InsertJob(t, "Unlinked", "")

		uid := tdb.InsertUser(t, "Bo", testutil.UniqueEmail("bo"), "pw", 1)
		tdb.LinkUserJob(t, uid, review)
		tdb.LinkUserJob(t, uid, audit)

		all, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, all, 3)
		assert.Equal(t, "Audit", all[0].Title)
		assert.Equal(t, "Quarterly audit", all[0].Description)

		mine, err := repo.ListByUser(ctx, uid)
		require.NoError(t, err)
		titles := []string{}
		for _, j := range mine {
			titles = append(titles, j.Title)
		}
		assert.ElementsMatch(t, []string{"Audit", "Review"}, titles)

		none, err := repo.ListByUser(ctx, uid+1000)
		require.NoError(t, err)
		assert.Empty(t, none)
	})
}

func TestJobRepo_NullDescription(t *testing.T) {
	testutil.WithTestDB(t, func(tdb *testutil.TestDB) {
		tdb.Exec(t, `INSERT INTO job (title, description) VALUES ($1, NULL)`, "Bare")

		jobs, err := NewJobRepo(tdb.DB, tdb.Dialect).List(context.Background())
		require.NoError(t, err)
		require.Len(t, jobs, 1)
		assert.Empty(t, jobs[0].Description)
	})
}

func TestDocumentRepo_ListOnePerLink(t *testing.T) {
	testutil.WithTestDB(t, func(tdb *testutil.TestDB) {
		ctx := context.Background()
		repo := NewDocumentRepo(tdb.DB, tdb.Dialect)

		j1 := tdb.InsertJob(t, "Audit", "")
		j2 := tdb.InsertJob(t, "Review", "")
		j3 := tdb.InsertJob(t, "Other", "")

		shared := tdb.InsertDocument(t, "shared.pdf", "/docs/shared.pdf", testutil.StringPtr("draft"))
		tdb.LinkJobDocument(t, j1, shared)
		tdb.LinkJobDocument(t, j2, shared)

		solo := tdb.InsertDocument(t, "solo.txt", "/docs/solo.txt", nil)
		tdb.LinkJobDocument(t, j3, solo)

		tdb.InsertDocument(t, "orphan.txt", "/docs/orphan.txt", nil)

		all, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, all, 3)

		assert.Equal(t, shared, all[0].ID)
		assert.Equal(t, shared, all[1].ID)
		assert.ElementsMatch(t, []string{"Audit", "Review"}, []string{all[0].JobTitle, all[1].JobTitle})
		require.NotNil(t, all[0].Status)
		assert.Equal(t, "draft", *all[0].Status)

		assert.Equal(t, solo, all[2].ID)
		assert.Nil(t, all[2].Status)
		assert.Equal(t, "Other", all[2].JobTitle)

		filtered, err := repo.ListByJobIDs(ctx, []int64{j1, j3})
		require.NoError(t, err)
		require.Len(t, filtered, 2)
		for _, d := range filtered {
			assert.Contains(t, []string{"Audit", "Other"}, d.JobTitle)
		}

		none, err := repo.ListByJobIDs(ctx, []int64{9999})
		require.NoError(t, err)
		assert.Empty(t, none)

		empty, err := repo.ListByJobIDs(ctx, nil)
		require.NoError(t, err)
		assert.NotNil(t, empty)
		assert.Empty(t, empty)
	})
}

func TestDocumentRepo_UpdateStatus(t *testing.T) {
	testutil.WithTestDB(t, func(tdb *testutil.TestDB) {
		ctx := context.Background()
		repo := NewDocumentRepo(tdb.DB, tdb.Dialect)

		id := tdb.InsertDocument(t, "a.txt", "/a.txt", nil)

		ok, err := repo.UpdateStatus(ctx, id, testutil.StringPtr("approved"))
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, 1, tdb.Count(t, `SELECT COUNT(*) FROM working_document WHERE status = $1`, "approved"))

		ok, err = repo.UpdateStatus(ctx, id, nil)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, 1, tdb.Count(t, `SELECT COUNT(*) FROM working_document WHERE status IS NULL`))

		ok, err = repo.UpdateStatus(ctx, id+1000, testutil.StringPtr("approved"))
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Equal(t, 1, tdb.Count(t, `SELECT COUNT(*) FROM working_document`))
	})
}

func TestDocumentRepo_Create(t *testing.T) {
	testutil.WithTestDB(t, func(tdb *testutil.TestDB) {
		ctx := context.Background()
		repo := NewDocumentRepo(tdb.DB, tdb.Dialect)

		j1 := tdb.InsertJob(t, "Audit", "")
		j2 := tdb.InsertJob(t, "Review", "")

		doc, err := repo.Create(ctx, &model.SubmitDocumentRequest{
			DocumentName: "plan.docx",
			DocumentPath: "/docs/plan.docx",
			UserID:       testutil.Int64Ptr(1),
			Jobs:         []int64{j1, j2},
		})
		require.NoError(t, err)
		require.NotZero(t, doc.ID)
		assert.Nil(t, doc.Status)

		assert.Equal(t, 1, tdb.Count(t, `SELECT COUNT(*) FROM working_document WHERE id = $1`, doc.ID))
		assert.Equal(t, 2, tdb.Count(t, `SELECT COUNT(*) FROM job_document_relation WHERE document_id = $1`, doc.ID))

		listings, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, listings, 2)
		assert.ElementsMatch(t, []string{"Audit", "Review"}, []string{listings[0].JobTitle, listings[1].JobTitle})
	})
}

func TestDocumentRepo_CreateWithoutJobs(t *testing.T) {
	testutil.WithTestDB(t, func(tdb *testutil.TestDB) {
		doc, err := NewDocumentRepo(tdb.DB, tdb.Dialect).Create(context.Background(), &model.SubmitDocumentRequest{
			DocumentName: "loose.txt",
			DocumentPath: "/loose.txt",
			UserID:       testutil.Int64Ptr(5),
			Status:       testutil.StringPtr("new"),
		})
		require.NoError(t, err)
		require.NotNil(t, doc.Status)
		assert.Equal(t, "new", *doc.Status)
		assert.Equal(t, 0, tdb.Count(t, `SELECT COUNT(*) FROM job_document_relation`))
	})
}

func TestDocumentRepo_CreateRollsBackOnLinkFailure(t *testing.T) {
	testutil.WithTestDB(t, func(tdb *testutil.TestDB) {
		// Make every relation insert fail so the document insert must be undone.
		tdb.Exec(t, `DROP TABLE job_document_relation`)

		_, err := NewDocumentRepo(tdb.DB, tdb.Dialect).Create(context.Background(), &model.SubmitDocumentRequest{
			DocumentName: "doomed.txt",
			DocumentPath: "/doomed.txt",
			UserID:       testutil.Int64Ptr(1),
			Jobs:         []int64{1},
		})
		require.Error(t, err)
		assert.True(t, apperrors.IsInternal(err), "got %v", err)
		assert.Equal(t, 0, tdb.Count(t, `SELECT COUNT(*) FROM working_document`))
	})
}

func TestDocumentRepo_CreateWithUnknownJob(t *testing.T) {
	testutil.WithTestDB(t, func(tdb *testutil.TestDB) {
		j1 := tdb.InsertJob(t, "Audit", "")

		doc, err := NewDocumentRepo(tdb.DB, tdb.Dialect).Create(context.Background(), &model.SubmitDocumentRequest{
			DocumentName: "orphan.txt",
			DocumentPath: "/orphan.txt",
			UserID:       testutil.Int64Ptr(1),
			Jobs:         []int64{j1, j1 + 1000},
		})

		if tdb.Dialect == database.Postgres {
			// REFERENCES constraints are enforced: nothing is persisted.
			require.Error(t, err)
			assert.True(t, apperrors.IsForeignKey(err), "got %v", err)
			assert.Equal(t, 0, tdb.Count(t, `SELECT COUNT(*) FROM working_document`))
			return
		}

		// SQLite leaves foreign keys unenforced; the dangling link is kept and simply
		// never joins to a job title.
		require.NoError(t, err)
		assert.Equal(t, 2, tdb.Count(t, `SELECT COUNT(*) FROM job_document_relation WHERE document_id = $1`, doc.ID))
		listings, err := NewDocumentRepo(tdb.DB, tdb.Dialect).List(context.Background())
		require.NoError(t, err)
		require.Len(t, listings, 1)
		assert.Equal(t, "Audit", listings[0].JobTitle)
	})
}

func TestDocumentRepo_CreateValidates(t *testing.T) {
	testutil.WithTestDB(t, func(tdb *testutil.TestDB) {
		_, err := NewDocumentRepo(tdb.DB, tdb.Dialect).Create(context.Background(), &model.SubmitDocumentRequest{
			DocumentPath: "/x",
		})
		require.Error(t, err)
		assert.True(t, apperrors.IsValidation(err))
		assert.Equal(t, 0, tdb.Count(t, `SELECT COUNT(*) FROM working_document`))
	})
}

// relaxTextColumns makes the text columns nullable, matching schemas that were
// provisioned outside this service without NOT NULL constraints.
func relaxTextColumns(t *testing.T, tdb *testutil.TestDB) {
	t.Helper()
	if tdb.Dialect == database.Postgres {
		// The shared database keeps its schema between tests; restore the constraints afterwards.
		columns := [][2]string{
			{`"user"`, "name"}, {`"user"`, "email"}, {`"user"`, "password"},
			{"job", "title"},
			{"working_document", "document_name"}, {"working_document", "document_path"},
		}
		for _, c := range columns {
			tdb.Exec(t, `ALTER TABLE `+c[0]+` ALTER COLUMN `+c[1]+` DROP NOT NULL`)
		}
		t.Cleanup(func() {
			tdb.Exec(t, `TRUNCATE job_document_relation, user_job_relation, working_document, job, "user"`)
			for _, c := range columns {
				tdb.Exec(t, `ALTER TABLE `+c[0]+` ALTER COLUMN `+c[1]+` SET NOT NULL`)
			}
		})
		return
	}
	// SQLite cannot drop a column constraint; the tables are empty here, so rebuild them.
	for _, stmt := range []string{
		`DROP TABLE "user"`,
		`CREATE TABLE "user" (id INTEGER PRIMARY KEY AUTOINCREMENT, name TEXT, email TEXT, password TEXT, level INTEGER)`,
		`DROP TABLE job`,
		`CREATE TABLE job (id INTEGER PRIMARY KEY AUTOINCREMENT, title TEXT, description TEXT)`,
		`DROP TABLE working_document`,
		`CREATE TABLE working_document (id INTEGER PRIMARY KEY AUTOINCREMENT, document_name TEXT, document_path TEXT, status TEXT)`,
	} {
		tdb.Exec(t, stmt)
	}
}

func TestUserRepo_GetByEmail_NullColumns(t *testing.T) {
	testutil.WithTestDB(t, func(tdb *testutil.TestDB) {
		relaxTextColumns(t, tdb)
		email := testutil.UniqueEmail("nameless")
		tdb.Exec(t, `INSERT INTO "user" (name, email, password, level) VALUES (NULL, $1, NULL, NULL)`, email)

		u, err := NewUserRepo(tdb.DB, tdb.Dialect).GetByEmail(context.Background(), email)
		require.NoError(t, err)
		assert.Empty(t, u.Name)
		assert.Empty(t, u.Password)
		assert.Equal(t, email, u.Email)
		assert.Zero(t, u.Level)
	})
}

func TestJobRepo_NullTitle(t *testing.T) {
	testutil.WithTestDB(t, func(tdb *testutil.TestDB) {
		relaxTextColumns(t, tdb)
		tdb.Exec(t, `INSERT INTO job (title, description) VALUES (NULL, $1)`, "untitled")

		jobs, err := NewJobRepo(tdb.DB, tdb.Dialect).List(context.Background())
		require.NoError(t, err)
		require.Len(t, jobs, 1)
		assert.Empty(t, jobs[0].Title)
		assert.Equal(t, "untitled", jobs[0].Description)
	})
}

func TestDocumentRepo_ListNullColumns(t *testing.T) {
	testutil.WithTestDB(t, func(tdb *testutil.TestDB) {
		relaxTextColumns(t, tdb)
		tdb.Exec(t, `INSERT INTO job (title) VALUES (NULL)`)
		tdb.Exec(t, `INSERT INTO working_document (document_name, document_path) VALUES (NULL, NULL)`)
		jobID := int64(tdb.Count(t, `SELECT MAX(id) FROM job`))
		docID := int64(tdb.Count(t, `SELECT MAX(id) FROM working_document`))
		tdb.LinkJobDocument(t, jobID, docID)

		listings, err := NewDocumentRepo(tdb.DB, tdb.Dialect).List(context.Background())
		require.NoError(t, err)
		require.Len(t, listings, 1)
		assert.Equal(t, docID, listings[0].ID)
		assert.Empty(t, listings[0].DocumentName)
		assert.Empty(t, listings[0].DocumentPath)
		assert.Empty(t, listings[0].JobTitle)
		assert.Nil(t, listings[0].Status)
	})
}
