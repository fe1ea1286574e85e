package kernel

type InternshipID string

func NewInternshipID(id string) InternshipID { return InternshipID(id) }
func (r InternshipID) String() string        { return string(r) }
func (r InternshipID) IsEmpty() bool         { return string(r) == "" }

// InternID is the identity-provider id of an applicant
type InternID string

func NewInternID(id string) InternID { return InternID(id) }
func (r InternID) String() string    { return string(r) }
func (r InternID) IsEmpty() bool     { return string(r) == "" }

// RecruiterID is the identity-provider id of a recruiter
type RecruiterID string

func NewRecruiterID(id string) RecruiterID { return RecruiterID(id) }
func (r RecruiterID) String() string       { return string(r) }
func (r RecruiterID) IsEmpty() bool        { return string(r) == "" }

type InterviewID string

func NewInterviewID(id string) InterviewID { return InterviewID(id) }
func (r InterviewID) String() string       { return string(r) }
func (r InterviewID) IsEmpty() bool        { return string(r) == "" }

// JobID identifies a background reconcile job
type JobID string

func NewJobID(id string) JobID { return JobID(id) }
func (r JobID) String() string { return string(r) }
func (r JobID) IsEmpty() bool  { return string(r) == "" }
