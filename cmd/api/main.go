package main

import (
	"fmt"
	"net/http"

	"github.com/go-chi/jwtauth/v5"

	"github.com/workpulse/payroll-engine-go/internal/config"
	appHTTP "github.com/workpulse/payroll-engine-go/internal/handler/http"
	"github.com/workpulse/payroll-engine-go/internal/pkg/cron"
	"github.com/workpulse/payroll-engine-go/internal/pkg/database"
	"github.com/workpulse/payroll-engine-go/internal/repository/postgresql"
	attendanceService "github.com/workpulse/payroll-engine-go/internal/service/attendance"
	payrollService "github.com/workpulse/payroll-engine-go/internal/service/payroll"
	performanceService "github.com/workpulse/payroll-engine-go/internal/service/performance"
	policyService "github.com/workpulse/payroll-engine-go/internal/service/policy"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}
	defer db.Close()

	punchRepo := postgresql.NewPunchRepository(db)
	shiftRepo := postgresql.NewShiftRepository(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)
	payrollRepo := postgresql.NewPayrollRepository(db)
	scoreRepo := postgresql.NewScoreRepository(db)

	aggregator := attendanceService.NewAggregator(punchRepo)
	resolver := policyService.NewResolver(payrollRepo)
	performanceSvc := performanceService.NewService(employeeRepo, shiftRepo, scoreRepo, aggregator)
	payrollSvc := payrollService.NewService(db, employeeRepo, shiftRepo, payrollRepo, resolver, aggregator)

	if cfg.App.CronEnabled {
		scheduler := cron.NewScheduler()
		cron.NewPayrollJobs(performanceSvc, payrollSvc, db).RegisterJobs(scheduler)
		scheduler.Start()
		defer scheduler.Stop()
	}

	tokenAuth := jwtauth.New("HS256", []byte(cfg.JWT.Secret), nil)
	payrollHandler := appHTTP.NewPayrollHandler(payrollSvc)
	performanceHandler := appHTTP.NewPerformanceHandler(performanceSvc)
	router := appHTTP.NewRouter(tokenAuth, payrollHandler, performanceHandler, cfg.App.AllowedOrigins)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
