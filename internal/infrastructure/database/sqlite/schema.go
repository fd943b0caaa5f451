package sqlite

// Schema is the subset of the registry the search engine reads. Dates are
// stored as YYYYMMDD text.
const Schema = `
CREATE TABLE IF NOT EXISTS jiken_c_t (
	normalized_app_num TEXT PRIMARY KEY
);

CREATE TABLE IF NOT EXISTS jiken_c_t_enhanced (
	normalized_app_num    TEXT NOT NULL,
	shutugan_bi           TEXT,
	toroku_bi             TEXT,
	raz_toroku_no         TEXT,
	raz_kohohakko_bi      TEXT,
	pcz_kokaikohohakko_bi TEXT
);

CREATE TABLE IF NOT EXISTS t_basic_item_enhanced (
	normalized_app_num  TEXT NOT NULL,
	reg_num             TEXT,
	conti_prd_expire_dt TEXT
);

CREATE TABLE IF NOT EXISTS mgt_info_enhanced (
	normalized_app_num        TEXT NOT NULL,
	trial_dcsn_year_month_day TEXT,
	processing_type           TEXT
);

CREATE TABLE IF NOT EXISTS standard_char_t_art (
	normalized_app_num TEXT NOT NULL,
	standard_char_t    TEXT
);

CREATE TABLE IF NOT EXISTS indct_use_t_art (
	normalized_app_num TEXT NOT NULL,
	indct_use_t        TEXT
);

CREATE TABLE IF NOT EXISTS search_use_t_art_table (
	normalized_app_num TEXT NOT NULL,
	search_use_t       TEXT
);

CREATE TABLE IF NOT EXISTS t_dsgnt_art (
	normalized_app_num TEXT NOT NULL,
	dsgnt              TEXT
);

CREATE TABLE IF NOT EXISTS goods_class_art (
	normalized_app_num TEXT NOT NULL,
	goods_classes      TEXT
);

CREATE TABLE IF NOT EXISTS jiken_c_t_shohin_joho (
	normalized_app_num TEXT NOT NULL,
	rui                TEXT,
	designated_goods   TEXT
);

CREATE TABLE IF NOT EXISTS t_knd_info_art_table (
	normalized_app_num TEXT NOT NULL,
	smlr_dsgn_group_cd TEXT
);

CREATE TABLE IF NOT EXISTS jiken_c_t_shutugannindairinin (
	shutugan_no                TEXT NOT NULL,
	shutugannindairinin_code   TEXT,
	shutugannindairinin_sikbt  TEXT
);

CREATE TABLE IF NOT EXISTS applicant_master_full (
	appl_cd        TEXT PRIMARY KEY,
	appl_name      TEXT,
	appl_cana_name TEXT,
	wes_join_name  TEXT,
	appl_addr      TEXT
);

CREATE TABLE IF NOT EXISTS applicant_master (
	appl_cd   TEXT PRIMARY KEY,
	appl_name TEXT,
	appl_addr TEXT
);

CREATE TABLE IF NOT EXISTS applicant_mapping (
	applicant_code  TEXT NOT NULL,
	applicant_name  TEXT,
	applicant_addr  TEXT,
	trademark_count INTEGER
);

CREATE TABLE IF NOT EXISTS reg_mapping (
	app_num TEXT NOT NULL,
	reg_num TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS right_person_art_t (
	reg_num           TEXT NOT NULL,
	right_person_name TEXT,
	right_person_addr TEXT
);

CREATE TABLE IF NOT EXISTS t_sample (
	normalized_app_num TEXT NOT NULL,
	image_data         BLOB
);

CREATE INDEX IF NOT EXISTS idx_std_app   ON standard_char_t_art (normalized_app_num);
CREATE INDEX IF NOT EXISTS idx_iu_app    ON indct_use_t_art (normalized_app_num);
CREATE INDEX IF NOT EXISTS idx_su_app    ON search_use_t_art_table (normalized_app_num);
CREATE INDEX IF NOT EXISTS idx_td_app    ON t_dsgnt_art (normalized_app_num);
CREATE INDEX IF NOT EXISTS idx_gca_app   ON goods_class_art (normalized_app_num);
CREATE INDEX IF NOT EXISTS idx_jcs_app   ON jiken_c_t_shohin_joho (normalized_app_num);
CREATE INDEX IF NOT EXISTS idx_tknd_app  ON t_knd_info_art_table (normalized_app_num);
CREATE INDEX IF NOT EXISTS idx_ap_app    ON jiken_c_t_shutugannindairinin (shutugan_no);
CREATE INDEX IF NOT EXISTS idx_apm_code  ON applicant_mapping (applicant_code);
CREATE INDEX IF NOT EXISTS idx_rm_app    ON reg_mapping (app_num);
CREATE INDEX IF NOT EXISTS idx_ts_app    ON t_sample (normalized_app_num);
`

//Personal.AI order the ending
