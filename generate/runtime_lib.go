package generate

// allocGuard is emitted after every allocation in generated code.
const allocGuard = `perror("Aborting due to");
exit(1);`

// runtimeLibrary is the fixed support library emitted into every program.  It
// is independent of the program being compiled.
const runtimeLibrary = `static void *checked_alloc(void *ptr) {
    if (ptr == NULL) {
        perror("Aborting due to");
        exit(1);
    }
    return ptr;
}

static char *dup_separators(const char *separators) {
    if (separators == NULL || separators == DEFAULT_SEPARATORS)
        return (char *)DEFAULT_SEPARATORS;
    return checked_alloc(strdup(separators));
}

bool is_directory(const char *path) {
    struct stat st;
    if (stat(path, &st) != 0)
        return false;
    return S_ISDIR(st.st_mode);
}

static bool is_regular_file(const char *path) {
    struct stat st;
    if (stat(path, &st) != 0)
        return false;
    return S_ISREG(st.st_mode);
}

int open_stream(FILE *stream, TexlerObject *tex_obj, const char *separators) {
    if (stream == NULL)
        return 1;

    tex_obj->type = TYPE_T_FILE;
    tex_obj->value.file.stream = stream;
    tex_obj->value.file.pos = 0;
    tex_obj->value.file.path_list = NULL;
    tex_obj->value.file.n_line = 0;
    tex_obj->value.file.n_files = 1;
    tex_obj->value.file.next_open_file = 0;
    tex_obj->value.file.separators = dup_separators(separators);
    return 0;
}

int open_file(const char *name, const char *mode, TexlerObject *tex_obj, const char *separators) {
    FILE *stream = fopen(name, mode);
    if (stream == NULL) {
        fprintf(stderr, "Could not open file %s\n", name);
        return 1;
    }
    return open_stream(stream, tex_obj, separators);
}

static int compare_paths(const void *a, const void *b) {
    return strcmp(*(char *const *)a, *(char *const *)b);
}

int get_list_of_files_in_dir(char ***path_list, const char *path) {
    DIR *dir = opendir(path);
    if (dir == NULL) {
        fprintf(stderr, "Could not open directory %s\n", path);
        return -1;
    }

    size_t path_len = strlen(path);
    bool has_slash = path_len > 0 && path[path_len - 1] == '/';
    int count = 0, capacity = 8;
    char **list = checked_alloc(malloc(capacity * sizeof(char *)));

    struct dirent *entry;
    while ((entry = readdir(dir)) != NULL) {
        size_t full_len = path_len + strlen(entry->d_name) + 2;
        char *full_path = checked_alloc(malloc(full_len));
        snprintf(full_path, full_len, has_slash ? "%s%s" : "%s/%s", path, entry->d_name);

        if (!is_regular_file(full_path)) {
            free(full_path);
            continue;
        }

        if (count == capacity) {
            capacity *= 2;
            list = checked_alloc(realloc(list, capacity * sizeof(char *)));
        }
        list[count++] = full_path;
    }
    closedir(dir);

    qsort(list, count, sizeof(char *), compare_paths);
    *path_list = list;
    return count;
}

int open_file_list(const char *path, TexlerObject *tex_obj, const char *separators) {
    char **path_list = NULL;
    int n_files = get_list_of_files_in_dir(&path_list, path);
    if (n_files < 0)
        return 1;

    tex_obj->type = TYPE_T_FILE_LIST;
    tex_obj->value.file.stream = NULL;
    tex_obj->value.file.pos = 0;
    tex_obj->value.file.path_list = path_list;
    tex_obj->value.file.n_line = 0;
    tex_obj->value.file.n_files = n_files;
    tex_obj->value.file.next_open_file = 0;
    tex_obj->value.file.separators = dup_separators(separators);
    return 0;
}

TexlerObject *get_next_file(TexlerObject *tex_obj) {
    if (tex_obj->type == TYPE_T_FILE) {
        rewind(tex_obj->value.file.stream);
        tex_obj->value.file.pos = 0;
        tex_obj->value.file.n_line = 0;
        return tex_obj;
    }

    if (tex_obj->type != TYPE_T_FILE_LIST || tex_obj->value.file.next_open_file >= tex_obj->value.file.n_files) {
        free_texlerobject(tex_obj);
        return NULL;
    }

    TexlerObject *next = checked_alloc(calloc(1, sizeof(TexlerObject)));
    const char *path = tex_obj->value.file.path_list[tex_obj->value.file.next_open_file++];
    if (open_file(path, "r", next, tex_obj->value.file.separators) != 0) {
        free_texlerobject(next);
        free_texlerobject(tex_obj);
        return NULL;
    }
    return next;
}

long lines(TexlerObject *tex_obj, char **line, size_t *size) {
    if (*line == NULL || *size == 0) {
        *size = BUFFER_SIZE;
        *line = checked_alloc(realloc(*line, *size));
    }

    FILE *stream = tex_obj->value.file.stream;
    long len = 0;
    int c;
    while ((c = fgetc(stream)) != EOF) {
        if ((size_t)len + 2 > *size) {
            *size *= 2;
            *line = checked_alloc(realloc(*line, *size));
        }
        (*line)[len++] = (char)c;
        if (c == '\n')
            break;
    }
    (*line)[len] = '\0';

    if (len == 0)
        return 0;

    tex_obj->value.file.n_line++;
    tex_obj->value.file.pos = ftell(stream);
    return len;
}

long line_by_number(TexlerObject *tex_obj, long number, char **line, size_t *size) {
    if (number < 1)
        return 0;

    rewind(tex_obj->value.file.stream);
    tex_obj->value.file.n_line = 0;

    long len = 0;
    while (tex_obj->value.file.n_line < number) {
        len = lines(tex_obj, line, size);
        if (len <= 0)
            return 0;
    }
    return len;
}

long columns(char **remaining, const char *separators, char **column, char *separator) {
    char *start = *remaining;
    if (start == NULL || *start == '\0' || *start == '\n')
        return -1;

    long len = 0;
    while (start[len] != '\0' && start[len] != '\n' && strchr(separators, start[len]) == NULL)
        len++;

    free(*column);
    *column = checked_alloc(malloc(len + 1));
    memcpy(*column, start, len);
    (*column)[len] = '\0';

    if (start[len] != '\0' && start[len] != '\n') {
        *separator = start[len];
        *remaining = start + len + 1;
    } else {
        *separator = 0;
        *remaining = start + len;
    }
    return len;
}

bool is_in_string(const char *needle, const char *haystack) {
    if (needle == NULL || haystack == NULL)
        return false;
    return strstr(haystack, needle) != NULL;
}

int is_number(const char *str, long len) {
    while (len > 0 && isspace((unsigned char)str[len - 1]))
        len--;
    if (len <= 0)
        return 0;

    char *text = checked_alloc(malloc(len + 1));
    memcpy(text, str, len);
    text[len] = '\0';

    char *end;
    int result = 0;
    strtol(text, &end, 10);
    if (*end == '\0') {
        result = IS_NUMBER_RETURN_INTEGER;
    } else {
        strtod(text, &end);
        if (*end == '\0')
            result = IS_NUMBER_RETURN_FLOATING;
    }

    free(text);
    return result;
}

int to_number_buffer(const char *str, double *out) {
    if (str == NULL || !is_number(str, strlen(str))) {
        fprintf(stderr, "Value is not a number\n");
        return 1;
    }
    *out = strtod(str, NULL);
    return 0;
}

int to_number(TexlerObject *tex_obj, double *out) {
    switch (tex_obj->type) {
    case TYPE_T_REAL:
        *out = tex_obj->value.real;
        return 0;
    case TYPE_T_INTEGER:
        *out = (double)tex_obj->value.integer;
        return 0;
    case TYPE_T_BOOLEAN:
        *out = tex_obj->value.boolean ? 1 : 0;
        return 0;
    case TYPE_T_STRING:
        return to_number_buffer(tex_obj->value.string.value, out);
    default:
        fprintf(stderr, "Value is not a number\n");
        return 1;
    }
}

const char *string_of(TexlerObject *tex_obj) {
    if (tex_obj->type != TYPE_T_STRING || tex_obj->value.string.value == NULL)
        return "";
    return tex_obj->value.string.value;
}

void set_string(TexlerObject *tex_obj, const char *value) {
    char *copy = checked_alloc(strdup(value));
    clear_texlerobject(tex_obj);
    tex_obj->type = TYPE_T_STRING;
    tex_obj->value.string.value = copy;
    tex_obj->value.string.len = strlen(copy);
}

void take_string(TexlerObject *tex_obj, char *value, size_t len) {
    clear_texlerobject(tex_obj);
    tex_obj->type = TYPE_T_STRING;
    tex_obj->value.string.value = value;
    tex_obj->value.string.len = len;
}

void set_number(TexlerObject *tex_obj, double value) {
    clear_texlerobject(tex_obj);
    if (value == floor(value) && fabs(value) < 9.0e15) {
        tex_obj->type = TYPE_T_INTEGER;
        tex_obj->value.integer = (long)value;
    } else {
        tex_obj->type = TYPE_T_REAL;
        tex_obj->value.real = value;
    }
}

void write_number(double value, FILE *dst) {
    if (value == floor(value) && fabs(value) < 9.0e15)
        fprintf(dst, "%ld", (long)value);
    else
        fprintf(dst, "%g", value);
}

char *format_long(long value) {
    char buffer[32];
    snprintf(buffer, sizeof(buffer), "%ld", value);
    return checked_alloc(strdup(buffer));
}

int copy_texlerobject(TexlerObject *dst, TexlerObject *src) {
    if (dst == src)
        return 0;

    switch (src->type) {
    case TYPE_T_STRING:
        set_string(dst, src->value.string.value);
        return 0;
    case TYPE_T_FILE:
    case TYPE_T_FILE_LIST:
        fprintf(stderr, "Cannot copy a file into a value\n");
        return 1;
    default:
        clear_texlerobject(dst);
        *dst = *src;
        return 0;
    }
}

int copy_buffer_content(const char *buffer, FILE *dst) {
    if (fputs(buffer, dst) == EOF) {
        fprintf(stderr, "Could not write to file\n");
        return 1;
    }
    return 0;
}

int copy_file_content(FILE *src, FILE *dst) {
    char buffer[BUFFER_SIZE];
    size_t n;

    rewind(src);
    while ((n = fread(buffer, 1, sizeof(buffer), src)) > 0) {
        if (fwrite(buffer, 1, n, dst) != n) {
            fprintf(stderr, "Could not write to file\n");
            return 1;
        }
    }
    return 0;
}

int copy_file_content_texler(TexlerObject *src, TexlerObject *dst) {
    if (src->type != TYPE_T_FILE || dst->type != TYPE_T_FILE) {
        fprintf(stderr, "Can only copy between open files\n");
        return 1;
    }

    if (strcmp(src->value.file.separators, dst->value.file.separators) == 0)
        return copy_file_content(src->value.file.stream, dst->value.file.stream);

    char *line = NULL, *column = NULL;
    size_t size = 0;
    long len;
    char separator;

    rewind(src->value.file.stream);
    src->value.file.n_line = 0;
    while ((len = lines(src, &line, &size)) > 0) {
        char *remaining = line;
        while (columns(&remaining, src->value.file.separators, &column, &separator) >= 0) {
            fputs(column, dst->value.file.stream);
            if (separator != 0)
                fputc(dst->value.file.separators[0], dst->value.file.stream);
        }
        if (line[len - 1] == '\n')
            fputc('\n', dst->value.file.stream);
    }

    free(column);
    free(line);
    return 0;
}

char *toString(TexlerObject *tex_obj) {
    char buffer[64];

    switch (tex_obj->type) {
    case TYPE_T_BOOLEAN:
        return checked_alloc(strdup(tex_obj->value.boolean ? "True" : "False"));
    case TYPE_T_REAL:
        snprintf(buffer, sizeof(buffer), "%g", tex_obj->value.real);
        return checked_alloc(strdup(buffer));
    case TYPE_T_INTEGER:
        snprintf(buffer, sizeof(buffer), "%ld", tex_obj->value.integer);
        return checked_alloc(strdup(buffer));
    case TYPE_T_STRING:
        return checked_alloc(strdup(tex_obj->value.string.value));
    default:
        fprintf(stderr, "Value cannot be converted to a string\n");
        return NULL;
    }
}

int write_texlerobject(TexlerObject *tex_obj, FILE *dst) {
    if (tex_obj->type == TYPE_T_FILE)
        return copy_file_content(tex_obj->value.file.stream, dst);

    char *text = toString(tex_obj);
    if (text == NULL)
        return 1;

    int result = copy_buffer_content(text, dst);
    free(text);
    return result;
}

int at(const char *str, long index) {
    long len = (long)strlen(str);
    if (index < 1 || index > len) {
        fprintf(stderr, "Index %ld out of range\n", index);
        return -1;
    }
    return (unsigned char)str[index - 1];
}

int string_addition(char **dest, size_t *len, const char *suffix) {
    int stripped = 0;
    if (*len > 0 && (*dest)[*len - 1] == '\n') {
        (*dest)[--(*len)] = '\0';
        stripped = 1;
    }

    size_t suffix_len = strlen(suffix);
    *dest = checked_alloc(realloc(*dest, *len + suffix_len + 1));
    memcpy(*dest + *len, suffix, suffix_len + 1);
    *len += suffix_len;
    return stripped;
}

int string_substract(char **dest, size_t *len, const char *suffix) {
    size_t suffix_len = strlen(suffix);
    if (suffix_len == 0 || suffix_len > *len)
        return 0;

    char *found = NULL, *cursor = *dest;
    while ((cursor = strstr(cursor, suffix)) != NULL) {
        found = cursor;
        cursor++;
    }
    if (found == NULL)
        return 0;

    memmove(found, found + suffix_len, strlen(found + suffix_len) + 1);
    *len -= suffix_len;
    *dest = checked_alloc(realloc(*dest, *len + 1));
    return 1;
}

static size_t trimmed_len(const char *str) {
    size_t len = strlen(str);
    if (len > 0 && str[len - 1] == '\n')
        len--;
    return len;
}

int compare_equality(TexlerObject *a, TexlerObject *b) {
    if (a == NULL || b == NULL)
        return 0;

    bool a_numeric = a->type == TYPE_T_REAL || a->type == TYPE_T_INTEGER;
    bool b_numeric = b->type == TYPE_T_REAL || b->type == TYPE_T_INTEGER;
    if (a_numeric && b_numeric) {
        if (a->type == TYPE_T_REAL || b->type == TYPE_T_REAL) {
            double x = a->type == TYPE_T_REAL ? a->value.real : (double)a->value.integer;
            double y = b->type == TYPE_T_REAL ? b->value.real : (double)b->value.integer;
            return fabs(x - y) < DBL_EPSILON;
        }
        return a->value.integer - b->value.integer == 0;
    }

    if (a->type == TYPE_T_STRING && b->type == TYPE_T_STRING)
        return strcmp(a->value.string.value, b->value.string.value) == 0;

    if (a->type == TYPE_T_BOOLEAN && b->type == TYPE_T_BOOLEAN)
        return a->value.boolean == b->value.boolean;

    return 0;
}

int compare_equality_constant_number_int(long number, TexlerObject *tex_obj) {
    double value;

    switch (tex_obj->type) {
    case TYPE_T_INTEGER:
        return tex_obj->value.integer - number == 0;
    case TYPE_T_REAL:
        return fabs(tex_obj->value.real - (double)number) < DBL_EPSILON;
    case TYPE_T_STRING:
        if (is_number(tex_obj->value.string.value, tex_obj->value.string.len) == 0)
            return 0;
        value = strtod(tex_obj->value.string.value, NULL);
        return fabs(value - (double)number) < DBL_EPSILON;
    default:
        return 0;
    }
}

int compare_equality_constant_string(const char *str, TexlerObject *tex_obj) {
    size_t len = trimmed_len(str);

    switch (tex_obj->type) {
    case TYPE_T_STRING:
        return trimmed_len(tex_obj->value.string.value) == len
            && strncmp(str, tex_obj->value.string.value, len) == 0;
    case TYPE_T_INTEGER:
    case TYPE_T_REAL:
        if (is_number(str, len) == 0)
            return 0;
        if (tex_obj->type == TYPE_T_INTEGER)
            return fabs(strtod(str, NULL) - (double)tex_obj->value.integer) < DBL_EPSILON;
        return fabs(strtod(str, NULL) - tex_obj->value.real) < DBL_EPSILON;
    default:
        return 0;
    }
}

int classify_buffer(const char *str) {
    return is_number(str, strlen(str)) != 0 ? CLASS_NUMBER : CLASS_STRING;
}

int classify_texlerobject(TexlerObject *tex_obj) {
    switch (tex_obj->type) {
    case TYPE_T_REAL:
    case TYPE_T_INTEGER:
        return CLASS_NUMBER;
    case TYPE_T_STRING:
        return classify_buffer(tex_obj->value.string.value);
    case TYPE_T_BOOLEAN:
        return CLASS_BOOLEAN;
    case TYPE_T_FILE:
    case TYPE_T_FILE_LIST:
        return CLASS_FILE;
    default:
        return CLASS_NONE;
    }
}

`

// emitRuntimeLibrary emits the support library.
func (g *Generator) emitRuntimeLibrary() {
	g.e.raw(runtimeLibrary)
}
