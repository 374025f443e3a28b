package event

// Canonical events fired by the host (current plugin API).
const (
	OnPluginsLoaded     = "onPluginsLoaded"
	OnConfigLoaded      = "onConfigLoaded"
	OnRequestURL        = "onRequestUrl"
	OnRequestFile       = "onRequestFile"
	OnContentLoading    = "onContentLoading"
	OnContentLoaded     = "onContentLoaded"
	On404ContentLoading = "on404ContentLoading"
	On404ContentLoaded  = "on404ContentLoaded"
	OnMetaParsing       = "onMetaParsing"
	OnMetaParsed        = "onMetaParsed"
	OnContentParsing    = "onContentParsing"
	OnContentParsed     = "onContentParsed"
	OnSinglePageLoaded  = "onSinglePageLoaded"
	OnPagesLoaded       = "onPagesLoaded"
	OnTwigRegistration  = "onTwigRegistration"
	OnPageRendering     = "onPageRendering"
	OnPageRendered      = "onPageRendered"
)

// Legacy events understood by API v0 plugins.
const (
	PluginsLoaded        = "plugins_loaded"
	ConfigLoaded         = "config_loaded"
	RequestURL           = "request_url"
	BeforeLoadContent    = "before_load_content"
	AfterLoadContent     = "after_load_content"
	Before404LoadContent = "before_404_load_content"
	After404LoadContent  = "after_404_load_content"
	BeforeReadFileMeta   = "before_read_file_meta"
	FileMeta             = "file_meta"
	BeforeParseContent   = "before_parse_content"
	AfterParseContent    = "after_parse_content"
	ContentParsed        = "content_parsed"
	GetPageData          = "get_page_data"
	GetPages             = "get_pages"
	BeforeTwigRegister   = "before_twig_register"
	BeforeRender         = "before_render"
	AfterRender          = "after_render"
)
