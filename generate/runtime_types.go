package generate

import (
	"fmt"

	"texlerc/common"
)

// headerTemplate is the prelude of every generated program.  The buffer size
// and default separators are filled in from the runtime settings.
const headerTemplate = `#define _POSIX_C_SOURCE 200809L

#include <ctype.h>
#include <dirent.h>
#include <float.h>
#include <math.h>
#include <stdio.h>
#include <stdlib.h>
#include <stdbool.h>
#include <string.h>
#include <sys/stat.h>

#define BUFFER_SIZE %d
#define IS_NUMBER_RETURN_INTEGER 1
#define IS_NUMBER_RETURN_FLOATING 2

#define CLASS_NONE 0
#define CLASS_NUMBER 1
#define CLASS_STRING 2
#define CLASS_BOOLEAN 3
#define CLASS_FILE 4

const char *DEFAULT_SEPARATORS = %s;

`

// valueModel is the runtime value type shared by every generated program.
// Ownership rules:
//   - a string owns its buffer;
//   - a file owns its stream unless the stream is one of the standard streams;
//   - a file list owns every path in its path list and the list itself;
//   - both file kinds own their separators unless they are DEFAULT_SEPARATORS.
const valueModel = `typedef enum {
    TYPE_T_NONE = 0,
    TYPE_T_BOOLEAN,
    TYPE_T_STRING,
    TYPE_T_REAL,
    TYPE_T_INTEGER,
    TYPE_T_FILE,
    TYPE_T_FILE_LIST,
    N_TYPE_T
} type_t;

typedef struct {
    type_t type;
    union {
        bool boolean;
        struct {
            char *value;
            size_t len;
        } string;
        double real;
        long integer;
        struct {
            FILE *stream;
            long pos;
            char *separators;
            char **path_list;
            long n_line;
            int n_files;
            int next_open_file;
        } file;
    } value;
} TexlerObject;

static bool is_standard_stream(FILE *stream) {
    return stream == stdin || stream == stdout || stream == stderr;
}

static void free_separators(char *separators) {
    if (separators != NULL && separators != DEFAULT_SEPARATORS)
        free(separators);
}

void clear_texlerobject(TexlerObject *tex_obj) {
    if (tex_obj == NULL)
        return;

    switch (tex_obj->type) {
    case TYPE_T_FILE:
        if (tex_obj->value.file.stream != NULL && !is_standard_stream(tex_obj->value.file.stream))
            fclose(tex_obj->value.file.stream);
        free_separators(tex_obj->value.file.separators);
        break;
    case TYPE_T_FILE_LIST:
        if (tex_obj->value.file.path_list != NULL) {
            for (int i = 0; i < tex_obj->value.file.n_files; i++) {
                if (tex_obj->value.file.path_list[i] != NULL)
                    free(tex_obj->value.file.path_list[i]);
            }
            free(tex_obj->value.file.path_list);
        }
        free_separators(tex_obj->value.file.separators);
        break;
    case TYPE_T_STRING:
        free(tex_obj->value.string.value);
        break;
    default:
        break;
    }

    memset(&tex_obj->value, 0, sizeof(tex_obj->value));
    tex_obj->type = TYPE_T_NONE;
}

void free_texlerobject(TexlerObject *tex_obj) {
    if (tex_obj == NULL)
        return;

    clear_texlerobject(tex_obj);
    free(tex_obj);
}

`

// emitValueModel emits the program header, the runtime value type and its
// destructor.
func (g *Generator) emitValueModel() {
	bufferSize := g.ctx.Runtime.BufferSize
	if bufferSize < common.MinBufferSize {
		bufferSize = common.DefaultBufferSize
	}

	separators := g.ctx.Runtime.DefaultSeparators
	if separators == "" {
		separators = common.DefaultSeparators
	}

	g.e.raw(fmt.Sprintf(headerTemplate, bufferSize, common.CQuote(separators)))
	g.e.raw(valueModel)
}
