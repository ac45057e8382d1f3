package util

const (
	DateFormat = "2006-01-02"
	TimeFormat = "2006-01-02 15:04:05"
)

const (
	StorageLocal = "local"
	StorageMinio = "minio"
	StorageOSS   = "oss"
)

const (
	MimeDocx        = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MimePDF         = "application/pdf"
	MimeZip         = "application/zip"
	MimeAudio       = "audio/"
	MimeOctetStream = "application/octet-stream"
)

var (
	DocumentExtensions = []string{".docx", ".pdf"}
	AudioExtensions    = []string{".mp3", ".wav", ".m4a", ".ogg", ".aac", ".flac"}
)

// User-facing messages. Raw store or driver text is never shown.
const (
	MsgRequiredFields    = "Vui lòng điền đầy đủ thông tin bắt buộc"
	MsgInvalidRequest    = "Dữ liệu gửi lên không hợp lệ"
	MsgInvalidFileType   = "Chỉ hỗ trợ file Word (.docx) và PDF"
	MsgInvalidAudioType  = "Chỉ hỗ trợ file âm thanh (mp3, wav, m4a, ogg, aac, flac)"
	MsgFileTooLarge      = "File quá lớn. Kích thước tối đa là %dMB"
	MsgFileMissing       = "Vui lòng chọn file để tải lên"
	MsgNotFound          = "Không tìm thấy dữ liệu"
	MsgSaveFailed        = "Đã có lỗi xảy ra khi lưu dữ liệu. Vui lòng thử lại."
	MsgLoadFailed        = "Không thể tải dữ liệu. Vui lòng thử lại."
	MsgDeleteFailed      = "Không thể xóa dữ liệu. Vui lòng thử lại."
	MsgUploadFailed      = "Tải file lên thất bại. Vui lòng thử lại."
	MsgUnauthorized      = "Vui lòng đăng nhập"
	MsgForbidden         = "Bạn không có quyền thực hiện thao tác này"
	MsgAccountDisabled   = "Tài khoản đã bị vô hiệu hóa"
	MsgInvalidLogin      = "Email hoặc mật khẩu không đúng"
	MsgEmailExists       = "Email đã tồn tại"
	MsgLessonInPath      = "Bài học đã có trong lộ trình"
	MsgInvalidOrder      = "Danh sách sắp xếp không hợp lệ"
	MsgDifficultyRange   = "Mức độ khó phải nằm trong khoảng 1-5"
	MsgDurationWeeks     = "Số tuần phải lớn hơn 0"
	MsgConflict          = "Dữ liệu đã tồn tại"
	MsgInvalidCourseType = "Khóa học phải là TOEIC, IELTS hoặc APTIS"
	MsgInvalidLessonType = "Loại bài học không hợp lệ"
	MsgInvalidSection    = "Loại phần thi không hợp lệ"
	MsgInvalidRole       = "Vai trò không hợp lệ"
	MsgCannotDeleteSelf  = "Không thể xóa hoặc khóa tài khoản của chính bạn"
	MsgPasswordLength    = "Mật khẩu phải có ít nhất 6 ký tự"
	MsgInvalidEmail      = "Email không hợp lệ"
	MsgInvalidContent    = "Loại nội dung không hợp lệ"
	MsgMissingLesson     = "(Bài học không còn tồn tại)"
	MsgTooManyRequests   = "Bạn thao tác quá nhanh. Vui lòng thử lại sau."
)
