// cmd/loan-apply/main.go
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"loan-origination/internal/common/camunda"
	"loan-origination/internal/common/config"
	"loan-origination/internal/common/database"
	apperrors "loan-origination/internal/common/errors"
	"loan-origination/internal/common/logger"
	"loan-origination/internal/common/storage"
	"loan-origination/internal/drafts"
	"loan-origination/internal/models"
	"loan-origination/internal/profile"
	"loan-origination/internal/upload"
	"loan-origination/internal/workflow"
)

func main() {
	applicantID := flag.String("applicant", "", "Applicant ID the application belongs to")
	loanType := flag.String("loan-type", "PERSONAL", "Loan product (PERSONAL, HOME, VEHICLE, EDUCATION, BUSINESS)")
	formPath := flag.String("form", "", "Path to the application form JSON")
	resume := flag.Bool("resume", false, "Resume the applicant's latest draft instead of starting fresh")
	prefill := flag.Bool("prefill", true, "Prefill applicant details from the stored profile")
	submit := flag.Bool("submit", false, "Submit the application after the review step")
	flag.Parse()

	if *applicantID == "" || *formPath == "" {
		fmt.Println("Usage: loan-apply --applicant <id> --form <file> [--loan-type HOME] [--resume] [--submit]")
		os.Exit(1)
	}

	form, err := loadForm(*formPath)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, "console")
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rdb, err := database.NewRedis(cfg.Database.Redis)
	if err != nil {
		zapLog.Fatal("redis unavailable", zap.Error(err))
	}
	defer rdb.Close()

	pg, err := database.NewPostgres(cfg.Database.Postgres)
	if err != nil {
		zapLog.Fatal("postgres unavailable", zap.Error(err))
	}
	defer pg.Close()

	zeebe, err := camunda.NewClientWithConfig(&camunda.ClientConfig{
		GatewayAddress:         cfg.Camunda.BrokerAddress,
		UsePlaintextConnection: true,
		ConnectionTimeout:      config.GetDuration(cfg.Camunda.Timeout),
		RequestTimeout:         config.GetDuration(cfg.Camunda.RequestTimeout),
	})
	if err != nil {
		zapLog.Fatal("zeebe unavailable", zap.Error(err))
	}
	defer zeebe.Close()

	objects, err := storage.NewMinIO(ctx, cfg.Storage.MinIO)
	if err != nil {
		zapLog.Fatal("document storage unavailable", zap.Error(err))
	}

	store := drafts.NewStore(
		drafts.NewRedisRepository(rdb.Client, config.GetDuration(cfg.Drafts.TTL)),
		drafts.Options{
			MaxPerApplicant:         cfg.Drafts.MaxPerApplicant,
			IncludeApplicantDetails: cfg.Drafts.CompletionIncludeApplicant,
		},
		log,
	)
	wf := workflow.New(
		store,
		camunda.NewProcessSubmitter(zeebe, cfg.Camunda.ReviewProcessID, config.GetDuration(cfg.Workflow.SubmitTimeout), log),
		profile.NewPostgresLoader(pg.DB, config.GetDuration(cfg.Camunda.RequestTimeout), log),
		workflow.RulesFromConfig(cfg.Workflow),
		log,
	)
	defer wf.Subscribe(func(ev workflow.Event) {
		if ev.Notice != nil {
			fmt.Printf("[%s] %s\n", ev.Notice.Severity, ev.Notice.Message)
		}
	})()

	if *resume {
		err = wf.ResumeLatest(ctx, *applicantID)
	} else {
		err = wf.Initialize(ctx, *applicantID, models.LoanType(*loanType))
	}
	if err != nil {
		zapLog.Fatal("could not start application", zap.Error(err))
	}

	saver := drafts.NewAutoSaver(wf, config.GetDuration(cfg.Drafts.AutoSaveInterval), log)
	go saver.Run(ctx)

	uploads := upload.NewCoordinator(storage.NewObjectUploader(objects, config.GetDuration(cfg.Storage.PresignTTL)), wf, log)

	if err := fill(ctx, wf, uploads, form, *applicantID, *prefill); err != nil {
		report(err)
		if _, serr := wf.SaveDraft(ctx); serr == nil {
			fmt.Printf("Draft %s saved; rerun with --resume to continue\n", wf.DraftID())
		}
		os.Exit(2)
	}

	if !*submit {
		if _, err := wf.SaveDraft(ctx); err != nil {
			report(err)
			os.Exit(2)
		}
		fmt.Printf("Application ready for review, draft %s\n", wf.DraftID())
		return
	}

	receipt, err := wf.Submit(ctx)
	if err != nil {
		report(err)
		os.Exit(3)
	}
	out, _ := json.MarshalIndent(receipt, "", "  ")
	fmt.Println(string(out))
}

// fill enters each section and advances until the review step. Steps
// already passed in a resumed draft are entered again from the form.
func fill(ctx context.Context, wf *workflow.Workflow, uploads *upload.Coordinator, form *Form, applicantID string, prefill bool) error {
	if err := wf.GoToStep(ctx, models.StepBasicDetails); err != nil {
		return err
	}

	if err := wf.UpdateBasicDetails(ctx, form.BasicDetails); err != nil {
		return err
	}
	if err := wf.NextStep(ctx); err != nil {
		return err
	}

	if form.ApplicantDetails != nil {
		if err := wf.UpdateApplicantDetails(ctx, *form.ApplicantDetails); err != nil {
			return err
		}
	}
	if prefill {
		if err := wf.PrefillFromProfile(ctx); err != nil && !errors.Is(err, profile.ErrProfileNotFound) {
			return err
		}
	}
	if err := wf.NextStep(ctx); err != nil {
		return err
	}

	if err := wf.UpdateFinancialDetails(ctx, form.FinancialDetails); err != nil {
		return err
	}
	if err := wf.NextStep(ctx); err != nil {
		return err
	}

	for _, d := range form.Documents {
		if err := uploadDocument(ctx, uploads, d, applicantID); err != nil {
			return err
		}
	}
	if err := wf.NextStep(ctx); err != nil {
		return err
	}

	if err := wf.UpdateDeclarations(ctx, form.Declarations); err != nil {
		return err
	}
	return wf.NextStep(ctx)
}

func uploadDocument(ctx context.Context, uploads *upload.Coordinator, d FormDocument, applicantID string) error {
	file, closeFile, err := openDocument(d)
	if err != nil {
		return fmt.Errorf("open %s: %w", d.Path, err)
	}
	defer closeFile()

	events, err := uploads.Upload(ctx, file, d.DocumentType, applicantID)
	if err != nil {
		return err
	}
	for ev := range events {
		if ev.Status == upload.StatusError {
			return ev.Err
		}
		if ev.Status == upload.StatusSuccess {
			fmt.Printf("Uploaded %s (%s)\n", file.Name, d.DocumentType)
		}
	}
	return nil
}

func report(err error) {
	var vf *apperrors.ValidationFailure
	if errors.As(err, &vf) {
		fmt.Printf("%s is incomplete:\n", vf.StepName)
		for _, v := range vf.Violations {
			fmt.Printf("  - %s: %s\n", v.Label, v.Message)
		}
		return
	}
	std := apperrors.Normalize(err)
	fmt.Printf("Error [%s]: %s %s\n", std.Code, std.Message, std.Details)
}
