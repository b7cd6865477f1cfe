package config

// Overrides carries command-line values. Only set fields are applied;
// pointer fields distinguish "not given" from a zero value.
type Overrides struct {
	Source     string
	Root       string
	NameFormat string
	LatestName string

	TransferCommand string
	TransferArgs    []string
	ExcludeFile     string
	TransferLog     string
	Verbose         *bool

	Mode      string
	Daily     *int
	Weekly    *int
	Monthly   *int
	WeekStart string

	LogLevel  string
	LogFormat string
	LogFile   string

	Schedule string
	LockFile string
}

// With returns a copy of c with the overrides applied on top.
// Command-line values always win over file values.
func (c Config) With(o Overrides) Config {
	if o.Source != "" {
		c.Source = o.Source
	}
	if o.Root != "" {
		c.Destination.Root = o.Root
	}
	if o.NameFormat != "" {
		c.Destination.NameFormat = o.NameFormat
	}
	if o.LatestName != "" {
		c.Destination.LatestName = o.LatestName
	}

	if o.TransferCommand != "" {
		c.Transfer.Command = o.TransferCommand
	}
	if o.TransferArgs != nil {
		c.Transfer.Args = o.TransferArgs
	}
	if o.ExcludeFile != "" {
		c.Transfer.ExcludeFile = o.ExcludeFile
	}
	if o.TransferLog != "" {
		c.Transfer.LogFile = o.TransferLog
	}
	if o.Verbose != nil {
		c.Transfer.Verbose = *o.Verbose
	}

	if o.Mode != "" {
		c.Retention.Mode = o.Mode
	}
	if o.Daily != nil {
		c.Retention.Daily = *o.Daily
	}
	if o.Weekly != nil {
		c.Retention.Weekly = *o.Weekly
	}
	if o.Monthly != nil {
		c.Retention.Monthly = *o.Monthly
	}
	if o.WeekStart != "" {
		c.Retention.WeekStart = o.WeekStart
	}

	if o.LogLevel != "" {
		c.Logging.Level = o.LogLevel
	}
	if o.LogFormat != "" {
		c.Logging.Format = o.LogFormat
	}
	if o.LogFile != "" {
		c.Logging.File = o.LogFile
	}

	if o.Schedule != "" {
		c.Daemon.Schedule = o.Schedule
	}
	if o.LockFile != "" {
		c.LockFile = o.LockFile
	}

	return c
}
