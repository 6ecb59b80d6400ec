//go:build e2e

// test/e2e/e2e_test.go
package e2e

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"loan-origination/internal/common/camunda"
	"loan-origination/internal/common/config"
	"loan-origination/internal/common/database"
	"loan-origination/internal/common/logger"
	"loan-origination/internal/common/storage"
	"loan-origination/internal/documents"
	"loan-origination/internal/drafts"
	"loan-origination/internal/models"
	"loan-origination/internal/profile"
	"loan-origination/internal/testutil"
	"loan-origination/internal/upload"
	"loan-origination/internal/workflow"

	calculateaffordability "loan-origination/internal/workers/loan/calculate-affordability"
	discardapplicationdraft "loan-origination/internal/workers/loan/discard-application-draft"
	loadapplicantprofile "loan-origination/internal/workers/loan/load-applicant-profile"
	resolverequireddocuments "loan-origination/internal/workers/loan/resolve-required-documents"
	validateloanapplication "loan-origination/internal/workers/loan/validate-loan-application"
)

var (
	zeebeClient *camunda.Client
	zapLog      *zap.Logger
)

// services holds the real backends every test talks to.
type services struct {
	cfg     *config.Config
	pg      *database.PostgresClient
	rdb     *database.RedisClient
	objects storage.Storage
	log     logger.Logger
}

func TestMain(m *testing.M) {
	var err error

	zeebeClient, err = camunda.NewClient("localhost:26500")
	if err != nil {
		panic(fmt.Sprintf("Failed to connect to Zeebe: %v", err))
	}
	zapLog, _ = zap.NewProduction()

	code := m.Run()

	zeebeClient.Close()
	os.Exit(code)
}

func TestFullE2E(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	svc := connect(t, cfg)
	seedApplicants(t, svc)
	deployed := deployBPMN(t, zeebeClient.Zeebe())

	t.Run("workers", func(t *testing.T) { testWorkers(t, svc) })
	t.Run("application flow", func(t *testing.T) { testApplicationFlow(t, svc, deployed) })
}

// ==========================
// 1. Connectivity
// ==========================

func connect(t *testing.T, cfg *config.Config) *services {
	t.Log("Checking service connectivity...")
	ctx := context.Background()

	cfg.Database.Postgres.Host = "localhost"
	cfg.Database.Redis.Address = "localhost:6379"
	if cfg.Storage.MinIO.Endpoint == "" {
		cfg.Storage.MinIO.Endpoint = "localhost:9000"
	}

	pg, err := database.NewPostgres(cfg.Database.Postgres)
	require.NoError(t, err, "PostgreSQL connection failed")
	require.NoError(t, pg.Ping(ctx), "PostgreSQL ping failed")
	t.Cleanup(func() { pg.Close() })

	rdb, err := database.NewRedis(cfg.Database.Redis)
	require.NoError(t, err, "Redis client creation failed")
	require.NoError(t, rdb.Ping(ctx), "Redis ping failed")
	t.Cleanup(func() { rdb.Close() })

	objects, err := storage.NewMinIO(ctx, cfg.Storage.MinIO)
	require.NoError(t, err, "MinIO connection failed")

	require.NoError(t, zeebeClient.HealthCheck(ctx), "Zeebe topology request failed")

	return &services{
		cfg:     cfg,
		pg:      pg,
		rdb:     rdb,
		objects: objects,
		log:     logger.NewZapAdapter(zapLog),
	}
}

// ==========================
// 2. Database Setup + Test Data
// ==========================

func seedApplicants(t *testing.T, svc *services) {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS applicants (
			applicant_id VARCHAR(255) PRIMARY KEY,
			first_name VARCHAR(100) NOT NULL,
			middle_name VARCHAR(100),
			last_name VARCHAR(100) NOT NULL,
			email VARCHAR(255) NOT NULL,
			mobile VARCHAR(20) NOT NULL,
			date_of_birth DATE,
			gender VARCHAR(20),
			pan_number VARCHAR(10),
			address TEXT,
			city VARCHAR(100),
			state VARCHAR(100),
			pincode VARCHAR(6)
		)`,
		`INSERT INTO applicants (applicant_id, first_name, last_name, email, mobile, date_of_birth, gender, pan_number, address, city, state, pincode)
		 VALUES ('applicant-42', 'Asha', 'Rao', 'asha.rao@example.in', '9876543210', '1990-05-14', 'FEMALE', 'ABCDE1234F',
		         '42, 3rd Cross, Indiranagar', 'Bengaluru', 'Karnataka', '560038')
		 ON CONFLICT (applicant_id) DO NOTHING`,
	}
	for _, q := range queries {
		_, err := svc.pg.DB.Exec(q)
		require.NoError(t, err)
	}
}

func deployBPMN(t *testing.T, client zbc.Client) int {
	var dir string
	for _, p := range []string{"bpmn", "../bpmn", "../../bpmn"} {
		if _, err := os.Stat(p); err == nil {
			dir = p
			break
		}
	}
	if dir == "" {
		t.Log("BPMN directory not found, submission will be skipped")
		return 0
	}

	files, err := os.ReadDir(dir)
	require.NoError(t, err)

	count := 0
	for _, f := range files {
		if f.IsDir() || !strings.HasSuffix(strings.ToLower(f.Name()), ".bpmn") {
			continue
		}
		path := filepath.Join(dir, f.Name())
		if _, err := client.NewDeployResourceCommand().AddResourceFile(path).Send(context.Background()); err != nil {
			t.Logf("Failed to deploy %s: %v", f.Name(), err)
			continue
		}
		count++
	}
	return count
}

// ==========================
// 3. Workers against real backends
// ==========================

func testWorkers(t *testing.T, svc *services) {
	ctx := context.Background()
	rules := workflow.RulesFromConfig(svc.cfg.Workflow)

	t.Run(calculateaffordability.TaskType, func(t *testing.T) {
		h := calculateaffordability.NewHandler(&calculateaffordability.Config{
			Timeout: 5 * time.Second, Rates: rules.Rates, MaxDTI: rules.MaxDTI,
		}, svc.log)
		out, err := h.Execute(ctx, &calculateaffordability.Input{
			LoanType: models.LoanTypeHome, LoanAmount: 500000, TenureMonths: 60,
			MonthlyIncome: 50000, ExistingObligations: 5000,
		})
		require.NoError(t, err)
		assert.True(t, out.Eligible)
	})

	t.Run(resolverequireddocuments.TaskType, func(t *testing.T) {
		h := resolverequireddocuments.NewHandler(&resolverequireddocuments.Config{Timeout: 5 * time.Second}, svc.log)
		out := h.Execute(&resolverequireddocuments.Input{LoanType: models.LoanTypeVehicle})
		assert.Len(t, out.RequiredDocuments, 7)
		assert.False(t, out.DocumentsComplete)
	})

	t.Run(validateloanapplication.TaskType, func(t *testing.T) {
		h := validateloanapplication.NewHandler(&validateloanapplication.Config{Timeout: 5 * time.Second, Rules: rules}, svc.log)
		out, err := h.Execute(ctx, &validateloanapplication.Input{Application: testutil.Application(models.LoanTypeHome)})
		require.NoError(t, err)
		assert.True(t, out.Valid)
	})

	t.Run(loadapplicantprofile.TaskType, func(t *testing.T) {
		h := loadapplicantprofile.NewHandler(
			&loadapplicantprofile.Config{Timeout: 5 * time.Second},
			profile.NewPostgresLoader(svc.pg.DB, 5*time.Second, svc.log),
			svc.log,
		)
		out, err := h.Execute(ctx, &loadapplicantprofile.Input{ApplicantID: testutil.ApplicantID})
		require.NoError(t, err)
		assert.True(t, out.ProfileFound)
		assert.Equal(t, "Asha", out.ApplicantDetails.FirstName)
	})

	t.Run(discardapplicationdraft.TaskType, func(t *testing.T) {
		store := newDraftStore(svc)
		id, err := store.Save(ctx, testutil.ApplicantID, models.DraftSnapshot{
			ApplicationID: "e2e-discard",
			CurrentStep:   1,
			BasicDetails:  testutil.BasicDetails(models.LoanTypePersonal),
		})
		require.NoError(t, err)

		h := discardapplicationdraft.NewHandler(&discardapplicationdraft.Config{Timeout: 5 * time.Second}, store, svc.log)
		out, err := h.Execute(ctx, &discardapplicationdraft.Input{ApplicationID: "e2e-discard"})
		require.NoError(t, err)
		assert.Equal(t, id, out.DraftID)
		assert.True(t, out.DraftDeleted)
	})
}

// ==========================
// 4. Application flow
// ==========================

func newDraftStore(svc *services) *drafts.Store {
	return drafts.NewStore(
		drafts.NewRedisRepository(svc.rdb.Client, time.Hour),
		drafts.Options{MaxPerApplicant: svc.cfg.Drafts.MaxPerApplicant},
		svc.log,
	)
}

func testApplicationFlow(t *testing.T, svc *services, deployed int) {
	ctx := context.Background()
	store := newDraftStore(svc)
	wf := workflow.New(
		store,
		camunda.NewProcessSubmitter(zeebeClient, svc.cfg.Camunda.ReviewProcessID, 15*time.Second, svc.log),
		profile.NewPostgresLoader(svc.pg.DB, 5*time.Second, svc.log),
		workflow.RulesFromConfig(svc.cfg.Workflow),
		svc.log,
	)

	require.NoError(t, wf.Initialize(ctx, testutil.ApplicantID, models.LoanTypeHome))
	require.NoError(t, wf.UpdateBasicDetails(ctx, testutil.BasicDetails(models.LoanTypeHome)))
	require.NoError(t, wf.NextStep(ctx))

	require.NoError(t, wf.PrefillFromProfile(ctx))
	app, _ := wf.Application()
	details := *testutil.ApplicantDetails()
	details.FirstName = app.ApplicantDetails.FirstName
	require.NoError(t, wf.UpdateApplicantDetails(ctx, details))
	require.NoError(t, wf.NextStep(ctx))

	require.NoError(t, wf.UpdateFinancialDetails(ctx, testutil.FinancialDetails()))
	require.NoError(t, wf.NextStep(ctx))

	uploads := upload.NewCoordinator(storage.NewObjectUploader(svc.objects, time.Hour), wf, svc.log)
	for _, req := range documents.RequiredDocuments(models.LoanTypeHome) {
		ext, contentType := ".pdf", "application/pdf"
		if !req.Accepts(documents.FormatPDF) {
			ext, contentType = ".png", "image/png"
		}
		content := []byte("e2e " + string(req.DocumentType))
		events, err := uploads.Upload(ctx, upload.File{
			Name:        string(req.DocumentType) + ext,
			ContentType: contentType,
			Size:        int64(len(content)),
			Reader:      bytes.NewReader(content),
		}, req.DocumentType, testutil.ApplicantID)
		require.NoError(t, err)

		var last upload.Event
		for ev := range events {
			last = ev
		}
		require.Equal(t, upload.StatusSuccess, last.Status, "upload of %s", req.DocumentType)
		assert.NotEmpty(t, last.FileURL)
	}
	require.NoError(t, wf.NextStep(ctx))

	require.NoError(t, wf.UpdateDeclarations(ctx, testutil.Declarations()))
	require.NoError(t, wf.NextStep(ctx))
	assert.Equal(t, models.StepReview, wf.CurrentStep())

	draftID := wf.DraftID()
	saved, err := store.Load(ctx, draftID)
	require.NoError(t, err)
	assert.Equal(t, models.StepReview, saved.CurrentStep)

	if deployed == 0 {
		t.Log("No review process deployed, skipping submission")
		return
	}

	receipt, err := wf.Submit(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, receipt.LoanID)

	_, err = store.Load(ctx, draftID)
	assert.ErrorIs(t, err, drafts.ErrNotFound)
}

// ==========================
// Benchmarks
// ==========================

func BenchmarkHandler_CalculateAffordability(b *testing.B) {
	h := calculateaffordability.NewHandler(calculateaffordability.LoadConfig(), logger.NewNoOpLogger())
	input := &calculateaffordability.Input{
		LoanType: models.LoanTypeHome, LoanAmount: 500000, TenureMonths: 60,
		MonthlyIncome: 50000, ExistingObligations: 5000, IncludeSchedule: true,
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		h.Execute(context.Background(), input)
	}
}

func BenchmarkHandler_ValidateLoanApplication(b *testing.B) {
	h := validateloanapplication.NewHandler(validateloanapplication.LoadConfig(), logger.NewNoOpLogger())
	input := &validateloanapplication.Input{Application: testutil.Application(models.LoanTypeBusiness)}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		h.Execute(context.Background(), input)
	}
}
