package metrics

// Instrument names recorded by a parallel.Pool.
const (
	JobsTotal           = "parallel_jobs_total"
	JobsFailedTotal     = "parallel_jobs_failed_total"
	ElementsTotal       = "parallel_elements_total"
	ElementErrorsTotal  = "parallel_element_errors_total"
	WorkersBusy         = "parallel_workers_busy"
	ElementDurationSecs = "parallel_element_duration_seconds"
)
