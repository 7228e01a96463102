package domain

// FileType represents the allowed document file types.
type FileType string

const (
	FileTypePDF  FileType = "pdf"
	FileTypeJSON FileType = "json"
)

// AllowedFileTypes maps FileType to its MIME content type.
var AllowedFileTypes = map[FileType]string{
	FileTypePDF:  "application/pdf",
	FileTypeJSON: "application/json",
}

// AllowedExtensions maps file extensions (without dot) to FileType.
var AllowedExtensions = map[string]FileType{
	"pdf":  FileTypePDF,
	"json": FileTypeJSON,
}

// InputVariant classifies a resolved request input.
type InputVariant string

const (
	InputUpload       InputVariant = "upload"
	InputRemoteObject InputVariant = "remote_object"
	InputInlineJSON   InputVariant = "inline_json"
	InputLocalFile    InputVariant = "local_file"
	InputStoredRecord InputVariant = "stored_record"
)

// Origin records where a normalized document's data came from.
type Origin string

const (
	OriginUpload     Origin = "upload"
	OriginS3         Origin = "s3"
	OriginInlineJSON Origin = "inline-json"
	OriginLocal      Origin = "local"
	OriginFallback   Origin = "fallback"
)

// PipelineStage tracks the report generation lifecycle.
type PipelineStage string

const (
	StageResolving   PipelineStage = "resolving"
	StageLoading     PipelineStage = "loading"
	StagePromptReady PipelineStage = "prompt_ready"
	StageInferring   PipelineStage = "inferring"
	StagePersisting  PipelineStage = "persisting"
	StageCompleted   PipelineStage = "completed"
)

// Warning codes surfaced on partially successful generations.
const (
	WarningUnparsedReport    = "unparsed_report"
	WarningPersistenceFailed = "persistence_failed"
	WarningFileUploadFailed  = "file_upload_failed"
)
